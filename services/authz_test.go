package services

import (
	"testing"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
)

func TestCanMutate(t *testing.T) {
	owner := middleware.Actor{ID: 7, Username: "owner", Role: models.RoleMember}
	stranger := middleware.Actor{ID: 8, Username: "stranger", Role: models.RoleMember}
	admin := middleware.Actor{ID: 9, Username: "admin", Role: models.RoleAdmin}

	answer := &models.Answer{ID: 1, UserID: 7}

	tests := []struct {
		name  string
		actor middleware.Actor
		op    Op
		want  bool
	}{
		{"owner updates own", owner, OpUpdate, true},
		{"owner deletes own", owner, OpDelete, true},
		{"owner cannot approve own", owner, OpApprove, false},
		{"stranger cannot update", stranger, OpUpdate, false},
		{"stranger cannot delete", stranger, OpDelete, false},
		{"stranger cannot approve", stranger, OpApprove, false},
		{"admin updates any", admin, OpUpdate, true},
		{"admin deletes any", admin, OpDelete, true},
		{"admin approves any", admin, OpApprove, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.actor, answer, tt.op); got != tt.want {
				t.Errorf("CanMutate(%s, answer owned by 7, %s) = %v, want %v", tt.actor.Username, tt.op, got, tt.want)
			}
		})
	}
}

func TestAuthorizeSurfacesDenial(t *testing.T) {
	stranger := middleware.Actor{ID: 8, Role: models.RoleMember}
	notification := &models.Notification{ID: 3, UserID: 7}

	if err := Authorize(stranger, notification, OpDelete); err != ErrForbidden {
		t.Fatalf("Authorize denial = %v, want ErrForbidden", err)
	}

	recipient := middleware.Actor{ID: 7, Role: models.RoleMember}
	if err := Authorize(recipient, notification, OpDelete); err != nil {
		t.Fatalf("Authorize for recipient = %v, want nil", err)
	}
}

func TestCanMutateUnknownOpDenied(t *testing.T) {
	admin := middleware.Actor{ID: 9, Role: models.RoleAdmin}
	member := middleware.Actor{ID: 7, Role: models.RoleMember}
	q := &models.Question{ID: 1, UserID: 7}

	// Admins bypass the op switch entirely; members do not.
	if !CanMutate(admin, q, Op("purge")) {
		t.Error("admin should pass for any op")
	}
	if CanMutate(member, q, Op("purge")) {
		t.Error("member must be denied for unknown ops, even on owned resources")
	}
}
