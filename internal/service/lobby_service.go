package service

import (
	"fmt"
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/kbrian1237/cemmaBlog-sub002/internal/repository"
)

// LobbyService manages turn-based game sessions. Session state is a typed,
// versioned value validated on every read; a row that fails validation is
// surfaced as an error rather than handed to callers.
type LobbyService struct {
	sessionRepo repository.GameSessionRepositoryInterface
}

func NewLobbyService(sessionRepo repository.GameSessionRepositoryInterface) *LobbyService {
	return &LobbyService{sessionRepo: sessionRepo}
}

func (s *LobbyService) CreateSession(ownerID uint, maxPlayers int) (*models.GameSession, error) {
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	if maxPlayers > 8 {
		return nil, Invalid("max_players cannot exceed 8")
	}

	session := &models.GameSession{
		OwnerID:    ownerID,
		Status:     models.SessionWaiting,
		MaxPlayers: maxPlayers,
		State:      models.NewSessionState(ownerID),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return s.sessionRepo.FindByID(session.ID)
}

func (s *LobbyService) GetSession(id uint) (*models.GameSession, error) {
	session, err := s.sessionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := session.State.Validate(); err != nil {
		return nil, fmt.Errorf("session %d state invalid: %w", id, err)
	}
	return session, nil
}

func (s *LobbyService) ListOpenSessions(limit int) ([]models.GameSession, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.sessionRepo.ListOpen(limit)
}

func (s *LobbyService) JoinSession(sessionID, userID uint) (*models.GameSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionWaiting {
		return nil, Invalid("session is not accepting players")
	}
	if session.State.HasPlayer(userID) {
		return nil, Invalid("already seated in this session")
	}
	if len(session.State.Players) >= session.MaxPlayers {
		return nil, Invalid("session is full")
	}

	session.State.Players = append(session.State.Players, models.SessionPlayer{
		UserID: userID,
		Seat:   len(session.State.Players),
	})
	session.State.UpdatedAt = time.Now().UTC()
	if len(session.State.Players) == session.MaxPlayers {
		session.Status = models.SessionActive
	}

	if err := s.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// LeaveSession removes a player while the session is waiting. The owner
// leaving finishes the session.
func (s *LobbyService) LeaveSession(sessionID, userID uint) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionWaiting {
		return Invalid("cannot leave a session in progress")
	}
	if !session.State.HasPlayer(userID) {
		return Invalid("not seated in this session")
	}

	if userID == session.OwnerID {
		session.Status = models.SessionFinished
	} else {
		players := session.State.Players[:0]
		for _, p := range session.State.Players {
			if p.UserID != userID {
				p.Seat = len(players)
				players = append(players, p)
			}
		}
		session.State.Players = players
		if session.State.TurnIndex >= len(players) {
			session.State.TurnIndex = 0
		}
	}
	session.State.UpdatedAt = time.Now().UTC()
	return s.sessionRepo.Update(session)
}

// AdvanceTurn records a move by the current player and rotates the turn.
// Any other caller is rejected without touching state.
func (s *LobbyService) AdvanceTurn(sessionID, userID uint) (*models.GameSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, Invalid("session is not active")
	}
	if session.State.CurrentPlayer() != userID {
		return nil, Unauthorized("not your turn")
	}

	session.State.TurnIndex = (session.State.TurnIndex + 1) % len(session.State.Players)
	session.State.MoveCount++
	session.State.UpdatedAt = time.Now().UTC()

	if err := s.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SweepStale drops waiting sessions idle longer than maxAge. Invoked on a
// schedule, never from request handling.
func (s *LobbyService) SweepStale(maxAge time.Duration) (int64, error) {
	return s.sessionRepo.DeleteStale(maxAge)
}
