package service

import (
	"testing"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
)

func newGroupService() (*GroupService, *MockGroupRepository, *MockGroupReadStateRepository) {
	groups := NewMockGroupRepository()
	readStates := NewMockGroupReadStateRepository()
	return NewGroupService(groups, readStates), groups, readStates
}

func TestCreateGroup(t *testing.T) {
	groupService, groups, readStates := newGroupService()

	tests := []struct {
		name      string
		groupName string
		creatorID uint
		shouldErr bool
	}{
		{"Create group", "book club", 1, false},
		{"Empty name rejected", "", 1, true},
		{"Whitespace name rejected", "   ", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := groupService.CreateGroup(tt.groupName, "a description", tt.creatorID, true)
			if (err != nil) != tt.shouldErr {
				t.Errorf("CreateGroup error = %v, wantErr %v", err, tt.shouldErr)
			}
			if tt.shouldErr {
				return
			}

			role, err := groups.GetMemberRole(group.ID, tt.creatorID)
			if err != nil || role != models.RoleAdmin {
				t.Errorf("creator role = %v (%v), want admin", role, err)
			}
			if _, err := readStates.Get(group.ID, tt.creatorID); err != nil {
				t.Errorf("creator has no read watermark: %v", err)
			}
		})
	}
}

func TestJoinGroup(t *testing.T) {
	groupService, _, _ := newGroupService()

	public, _ := groupService.CreateGroup("public group", "", 1, true)
	private, _ := groupService.CreateGroup("private group", "", 1, false)

	if err := groupService.JoinGroup(public.ID, 2); err != nil {
		t.Fatalf("join public failed: %v", err)
	}
	if err := groupService.JoinGroup(public.ID, 2); !IsValidation(err) {
		t.Errorf("rejoining error = %v, want validation error", err)
	}
	if err := groupService.JoinGroup(private.ID, 2); !IsAuthorization(err) {
		t.Errorf("joining private error = %v, want authorization error", err)
	}
	if err := groupService.JoinGroup(999, 2); err == nil {
		t.Error("joining missing group succeeded")
	}
}

func TestInviteMember(t *testing.T) {
	groupService, _, _ := newGroupService()

	group, _ := groupService.CreateGroup("private group", "", 1, false)
	groupService.InviteMember(group.ID, 1, 2)

	tests := []struct {
		name      string
		inviterID uint
		inviteeID uint
		wantAuth  bool
		wantValid bool
	}{
		{"Admin invites into private group", 1, 3, false, false},
		{"Plain member cannot invite", 2, 4, true, false},
		{"Outsider cannot invite", 9, 5, true, false},
		{"Duplicate invite rejected", 1, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := groupService.InviteMember(group.ID, tt.inviterID, tt.inviteeID)
			if tt.wantAuth {
				if !IsAuthorization(err) {
					t.Errorf("error = %v, want authorization error", err)
				}
				return
			}
			if tt.wantValid {
				if !IsValidation(err) {
					t.Errorf("error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLeaveGroupDropsWatermark(t *testing.T) {
	groupService, groups, readStates := newGroupService()

	group, _ := groupService.CreateGroup("team", "", 1, true)
	groupService.JoinGroup(group.ID, 2)
	groupService.MarkGroupRead(group.ID, 2, 40)

	if err := groupService.LeaveGroup(group.ID, 2); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	if member, _ := groups.IsMember(group.ID, 2); member {
		t.Error("still a member after leaving")
	}
	if _, err := readStates.Get(group.ID, 2); err == nil {
		t.Error("read watermark survived leaving")
	}

	// Read state for a departed member reports zero, not an error.
	state, err := groupService.GetReadState(group.ID, 2)
	if err != nil {
		t.Fatalf("GetReadState after leave errored: %v", err)
	}
	if state.LastReadMessageID != 0 {
		t.Errorf("watermark after leave = %d, want 0", state.LastReadMessageID)
	}
}

func TestMarkGroupReadMonotonic(t *testing.T) {
	groupService, _, _ := newGroupService()

	group, _ := groupService.CreateGroup("team", "", 1, true)
	groupService.JoinGroup(group.ID, 2)

	steps := []struct {
		name string
		mark uint
		want uint
	}{
		{"First mark", 10, 10},
		{"Advance", 25, 25},
		{"Stale tab reports older id", 12, 25},
		{"Same id is a no-op", 25, 25},
		{"Move forward again", 30, 30},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			if err := groupService.MarkGroupRead(group.ID, 2, tt.mark); err != nil {
				t.Fatalf("MarkGroupRead failed: %v", err)
			}
			state, err := groupService.GetReadState(group.ID, 2)
			if err != nil {
				t.Fatalf("GetReadState failed: %v", err)
			}
			if state.LastReadMessageID != tt.want {
				t.Errorf("watermark = %d, want %d", state.LastReadMessageID, tt.want)
			}
		})
	}

	if err := groupService.MarkGroupRead(group.ID, 99, 5); !IsAuthorization(err) {
		t.Errorf("non-member mark error = %v, want authorization error", err)
	}
}
