package optimistic

import (
	"context"
	"errors"
	"testing"
)

type counts struct {
	Likes    int64
	Dislikes int64
}

func TestRunConfirms(t *testing.T) {
	current := counts{Likes: 3}

	res := Run(context.Background(), current, Command[counts]{
		Apply: func(c counts) counts {
			c.Likes++
			return c
		},
		Confirm: func(ctx context.Context) (counts, error) {
			// Server disagrees with the local guess; authoritative wins.
			return counts{Likes: 5}, nil
		},
	})

	if res.Optimistic.Likes != 4 {
		t.Errorf("optimistic likes = %d, want 4", res.Optimistic.Likes)
	}
	if res.Confirmed.Likes != 5 {
		t.Errorf("confirmed likes = %d, want 5", res.Confirmed.Likes)
	}
	if res.RolledBack {
		t.Error("successful confirm reported as rolled back")
	}
}

func TestRunRollsBack(t *testing.T) {
	current := counts{Likes: 3, Dislikes: 1}
	failure := errors.New("storage unavailable")

	res := Run(context.Background(), current, Command[counts]{
		Apply: func(c counts) counts {
			c.Likes++
			return c
		},
		Confirm: func(ctx context.Context) (counts, error) {
			return counts{}, failure
		},
	})

	if !res.RolledBack {
		t.Fatal("failed confirm not rolled back")
	}
	if res.Confirmed != current {
		t.Errorf("confirmed = %+v, want pre-command state %+v", res.Confirmed, current)
	}
	if !errors.Is(res.Err, failure) {
		t.Errorf("err = %v, want %v", res.Err, failure)
	}
	// The optimistic value is still reported so the UI can explain the flicker.
	if res.Optimistic.Likes != 4 {
		t.Errorf("optimistic likes = %d, want 4", res.Optimistic.Likes)
	}
}
