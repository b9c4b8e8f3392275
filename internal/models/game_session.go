package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionWaiting  SessionStatus = "waiting"
	SessionActive   SessionStatus = "active"
	SessionFinished SessionStatus = "finished"
)

// SessionStateSchema is the current schema version for SessionState. Bump it
// when the shape changes and extend Validate to migrate or reject old rows.
const SessionStateSchema = 1

type SessionPlayer struct {
	UserID uint `json:"user_id"`
	Seat   int  `json:"seat"`
}

// SessionState is the structured, versioned lobby state. It is stored as
// JSONB through the GORM serializer and validated on every read, so a
// corrupt or stale-schema row surfaces as an error instead of undefined
// behavior downstream.
type SessionState struct {
	SchemaVersion int             `json:"schema_version"`
	Players       []SessionPlayer `json:"players"`
	TurnIndex     int             `json:"turn_index"`
	MoveCount     int             `json:"move_count"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewSessionState(ownerID uint) SessionState {
	return SessionState{
		SchemaVersion: SessionStateSchema,
		Players:       []SessionPlayer{{UserID: ownerID, Seat: 0}},
		TurnIndex:     0,
		UpdatedAt:     time.Now().UTC(),
	}
}

func (s *SessionState) Validate() error {
	if s.SchemaVersion != SessionStateSchema {
		return fmt.Errorf("unsupported session state schema %d (want %d)", s.SchemaVersion, SessionStateSchema)
	}
	if len(s.Players) == 0 {
		return errors.New("session state has no players")
	}
	if s.TurnIndex < 0 || s.TurnIndex >= len(s.Players) {
		return fmt.Errorf("turn index %d out of range for %d players", s.TurnIndex, len(s.Players))
	}
	seen := make(map[uint]bool, len(s.Players))
	for _, p := range s.Players {
		if seen[p.UserID] {
			return fmt.Errorf("player %d seated twice", p.UserID)
		}
		seen[p.UserID] = true
	}
	return nil
}

// CurrentPlayer returns the user whose turn it is.
func (s *SessionState) CurrentPlayer() uint {
	return s.Players[s.TurnIndex].UserID
}

func (s *SessionState) HasPlayer(userID uint) bool {
	for _, p := range s.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

type GameSession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID    uint          `gorm:"not null;index" json:"owner_id"`
	Owner      User          `gorm:"foreignKey:OwnerID" json:"owner"`
	Status     SessionStatus `gorm:"type:varchar(20);default:'waiting';index" json:"status"`
	MaxPlayers int           `gorm:"default:2" json:"max_players"`

	State SessionState `gorm:"type:jsonb;serializer:json" json:"state"`
}
