package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/logging"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/optimistic"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/poll"
)

// pollwatch tails a conversation from the terminal using the same poll
// protocol the web client speaks: bootstrap the cursor from /latest, then
// repeat /since calls, print whatever is new, and mark it read. With -send
// it instead delivers one message, echoing it locally before the server
// confirms.

type sinceResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	LastID   uint   `json:"last_id"`
	Messages []struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
		Sender  struct {
			Username string `json:"username"`
		} `json:"sender"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"messages"`
}

type watcher struct {
	baseURL string
	token   string
	path    string
	readURL string
	group   bool
	client  *http.Client
	logger  *logrus.Logger
}

func (w *watcher) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

// bootstrap asks for the current cursor so the watcher starts at "now"
// instead of replaying the backlog.
func (w *watcher) bootstrap(ctx context.Context) (uint, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		LastID  uint   `json:"last_id"`
	}
	if err := w.get(ctx, w.baseURL+w.path+"/latest", &out); err != nil {
		return 0, err
	}
	if !out.Success {
		return 0, fmt.Errorf("bootstrap failed: %s", out.Message)
	}
	return out.LastID, nil
}

// send posts one message to the watched conversation and returns the
// server-assigned id.
func (w *watcher) send(ctx context.Context, peerID, groupID uint, content string) (uint, error) {
	body := map[string]interface{}{
		"client_id": uuid.NewString(),
		"content":   content,
	}
	url := w.baseURL + "/api/messages"
	if groupID != 0 {
		url = fmt.Sprintf("%s/api/groups/%d/messages", w.baseURL, groupID)
	} else {
		body["recipient_id"] = peerID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// "message" is the sent row on success and an error string on failure,
	// so it has to be decoded after checking the success flag.
	var out struct {
		Success bool            `json:"success"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if !out.Success {
		var reason string
		_ = json.Unmarshal(out.Message, &reason)
		return 0, fmt.Errorf("send rejected: %s", reason)
	}
	var sent struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(out.Message, &sent); err != nil {
		return 0, err
	}
	return sent.ID, nil
}

func (w *watcher) fetch(ctx context.Context, lastID uint) (uint, error) {
	url := fmt.Sprintf("%s%s/since?last_id=%d", w.baseURL, w.path, lastID)

	var out sinceResponse
	if err := w.get(ctx, url, &out); err != nil {
		return lastID, err
	}
	if !out.Success {
		return lastID, fmt.Errorf("poll failed: %s", out.Message)
	}

	for _, m := range out.Messages {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04:05"), m.Sender.Username, m.Content)
	}

	// Anything fetched has been displayed, so tell the server it was read.
	// Fire and forget: a failed mark leaves the messages unread until the
	// next fetch that returns something.
	if len(out.Messages) > 0 {
		if err := w.markRead(ctx, out.LastID); err != nil {
			w.logger.Warnf("mark read: %v", err)
		}
	}

	if out.LastID > lastID {
		return out.LastID, nil
	}
	return lastID, nil
}

// markRead flips the read state for everything up to lastID. The direct
// endpoint needs no body; the group endpoint advances the watermark.
func (w *watcher) markRead(ctx context.Context, lastID uint) error {
	var body io.Reader
	if w.group {
		payload, err := json.Marshal(map[string]uint{"last_read_message_id": lastID})
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.readURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	if w.group {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mark read: status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "server base URL")
	token := flag.String("token", os.Getenv("CB_TOKEN"), "access token (or CB_TOKEN env)")
	peerID := flag.Uint("peer", 0, "peer user id to watch")
	groupID := flag.Uint("group", 0, "group id to watch")
	interval := flag.Duration("interval", 3*time.Second, "poll interval")
	backlog := flag.Bool("backlog", false, "print the backlog instead of starting at now")
	sendText := flag.String("send", "", "send one message to the target and exit")
	flag.Parse()

	logger := logging.New()

	if *token == "" {
		logger.Fatal("an access token is required (-token or CB_TOKEN)")
	}
	if (*peerID == 0) == (*groupID == 0) {
		logger.Fatal("exactly one of -peer or -group is required")
	}

	path := fmt.Sprintf("/api/messages/%d", *peerID)
	readURL := *baseURL + fmt.Sprintf("/api/messages/%d/read", *peerID)
	if *groupID != 0 {
		path = fmt.Sprintf("/api/groups/%d/messages", *groupID)
		readURL = *baseURL + fmt.Sprintf("/api/groups/%d/read", *groupID)
	}

	w := &watcher{
		baseURL: *baseURL,
		token:   *token,
		path:    path,
		readURL: readURL,
		group:   *groupID != 0,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *sendText != "" {
		type echo struct {
			ID        uint
			Delivered bool
		}
		res := optimistic.Run(ctx, echo{}, optimistic.Command[echo]{
			Apply: func(e echo) echo {
				fmt.Printf("[%s] (you): %s\n", time.Now().Format("15:04:05"), *sendText)
				e.Delivered = true
				return e
			},
			Confirm: func(ctx context.Context) (echo, error) {
				id, err := w.send(ctx, *peerID, *groupID, *sendText)
				if err != nil {
					return echo{}, err
				}
				return echo{ID: id, Delivered: true}, nil
			},
		})
		if res.RolledBack {
			logger.Fatalf("not delivered: %v", res.Err)
		}
		logger.Infof("delivered as message %d", res.Confirmed.ID)
		return
	}

	var cursor uint
	if !*backlog {
		var err error
		cursor, err = w.bootstrap(ctx)
		if err != nil {
			logger.Fatalf("bootstrap: %v", err)
		}
	}

	p := poll.New(*interval, cursor, func(ctx context.Context, lastID uint) (uint, error) {
		next, err := w.fetch(ctx, lastID)
		if err != nil {
			logger.Warnf("poll: %v", err)
			return lastID, err
		}
		return next, nil
	})

	logger.Infof("watching %s every %s", path, *interval)
	p.Run(ctx)
	p.Wait()
}
