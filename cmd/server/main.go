package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/cache"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/handlers"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/jobs"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/logging"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/middleware"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/render"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New()

	if os.Getenv("JWT_SECRET") == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db, err := repository.InitDB()
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}

	// Redis is best effort. A dead cache degrades to direct reads, it never
	// takes the API down.
	var redisCache *cache.RedisCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		rc := cache.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err := rc.Ping(); err != nil {
			logger.Warnf("redis unreachable, caching disabled: %v", err)
		} else {
			redisCache = rc
		}
	}
	msgCache := cache.NewMessageCache(redisCache)
	feedCache := cache.NewFeedCache(redisCache)

	// Object store is optional; media routes mount only when configured.
	var objectStore *storage.ObjectStore
	if cfg, err := storage.LoadObjectStoreConfigFromEnv(); err == nil {
		objectStore, err = storage.NewObjectStore(cfg)
		if err != nil {
			logger.Fatalf("object store init: %v", err)
		}
	} else {
		logger.Warnf("object store disabled: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupReadStateRepo := repository.NewGroupReadStateRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	sessionRepo := repository.NewGameSessionRepository(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, followRepo)
	messageService := service.NewMessageService(messageRepo, groupRepo)
	groupService := service.NewGroupService(groupRepo, groupReadStateRepo)
	postService := service.NewPostService(postRepo, reactionRepo, commentRepo)
	reactionService := service.NewReactionService(reactionRepo, commentRepo, postRepo)
	lobbyService := service.NewLobbyService(sessionRepo)

	renderer := render.New()

	authHandler := handlers.NewAuthHandler(authService, userService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	messageHandler := handlers.NewMessageHandler(messageService, groupService, renderer, msgCache, logger)
	groupHandler := handlers.NewGroupHandler(groupService, logger)
	postHandler := handlers.NewPostHandler(postService, reactionService, renderer, feedCache, logger)
	reactionHandler := handlers.NewReactionHandler(reactionService, renderer, feedCache, logger)
	lobbyHandler := handlers.NewLobbyHandler(lobbyService, logger)
	mediaHandler := handlers.NewMediaHandler(objectStore, postService, logger)

	scheduler := jobs.NewScheduler(lobbyService, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "cemmaBlog",
		ErrorHandler: fiberErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-CB-CSRF",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(), authHandler.Me)

	// Everything below requires a session; state-changing verbs also pass
	// the CSRF and origin checks.
	authed := api.Group("", middleware.AuthRequired(), middleware.OriginAllowed(), middleware.CSRFRequired())

	authed.Get("/users", userHandler.SearchUsers)
	authed.Get("/users/:username", userHandler.GetProfile)
	authed.Patch("/users/me", userHandler.UpdateProfile)
	authed.Post("/users/:userID/follow", userHandler.Follow)
	authed.Delete("/users/:userID/follow", userHandler.Unfollow)
	authed.Get("/users/:userID/followers", userHandler.GetFollowers)
	authed.Get("/users/:userID/following", userHandler.GetFollowing)
	authed.Get("/users/:userID/posts", postHandler.GetUserPosts)

	authed.Post("/messages", messageHandler.SendMessage)
	authed.Get("/messages/:peerID", messageHandler.GetMessages)
	authed.Get("/messages/:peerID/since", messageHandler.GetMessagesSince)
	authed.Get("/messages/:peerID/latest", messageHandler.GetLatestMessageID)
	authed.Post("/messages/:peerID/read", messageHandler.MarkConversationRead)
	authed.Get("/conversations", messageHandler.GetConversations)
	authed.Get("/conversations/groups", messageHandler.GetGroupConversations)

	authed.Post("/groups", groupHandler.CreateGroup)
	authed.Get("/groups", groupHandler.SearchGroups)
	authed.Get("/groups/mine", groupHandler.MyGroups)
	authed.Get("/groups/:groupID", groupHandler.GetGroup)
	authed.Get("/groups/:groupID/members", groupHandler.GetMembers)
	authed.Post("/groups/:groupID/join", groupHandler.JoinGroup)
	authed.Post("/groups/:groupID/invite", groupHandler.InviteMember)
	authed.Post("/groups/:groupID/leave", groupHandler.LeaveGroup)
	authed.Post("/groups/:groupID/messages", messageHandler.SendGroupMessage)
	authed.Get("/groups/:groupID/messages", messageHandler.GetGroupMessages)
	authed.Get("/groups/:groupID/messages/since", messageHandler.GetGroupMessagesSince)
	authed.Get("/groups/:groupID/messages/latest", messageHandler.GetLatestGroupMessageID)
	authed.Post("/groups/:groupID/read", groupHandler.MarkGroupRead)
	authed.Get("/groups/:groupID/read", groupHandler.GetReadState)

	authed.Post("/posts", postHandler.CreatePost)
	authed.Get("/posts", postHandler.GetFeed)
	authed.Get("/posts/:postID", postHandler.GetPost)
	authed.Post("/posts/:postID/reactions", reactionHandler.React)
	authed.Delete("/posts/:postID/reactions", reactionHandler.Unreact)
	authed.Get("/posts/:postID/reactions/me", reactionHandler.GetReaction)
	authed.Post("/posts/:postID/comments", reactionHandler.CreateComment)
	authed.Get("/posts/:postID/comments", reactionHandler.ListComments)

	authed.Get("/categories", postHandler.ListCategories)
	authed.Post("/categories", middleware.RequireRole("admin"), postHandler.CreateCategory)

	authed.Post("/sessions", lobbyHandler.CreateSession)
	authed.Get("/sessions", lobbyHandler.ListSessions)
	authed.Get("/sessions/:sessionID", lobbyHandler.GetSession)
	authed.Post("/sessions/:sessionID/join", lobbyHandler.JoinSession)
	authed.Post("/sessions/:sessionID/leave", lobbyHandler.LeaveSession)
	authed.Post("/sessions/:sessionID/advance", lobbyHandler.AdvanceTurn)

	if mediaHandler.Enabled() {
		authed.Post("/posts/:postID/image", mediaHandler.UploadPostImage)
		authed.Get("/media/*", mediaHandler.GetImage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			logger.Fatalf("listen: %v", err)
		}
	}()
	logger.Infof("listening on :%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Warnf("redis close: %v", err)
		}
	}
}

func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
