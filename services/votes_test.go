package services

import (
	"strings"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/models"
)

func TestNextVoteState(t *testing.T) {
	tests := []struct {
		name       string
		current    VoteState
		direction  string
		wantState  VoteState
		wantEffect VoteEffect
	}{
		{"fresh upvote", NoVote, "up", VotedUp, EffectInsert},
		{"fresh downvote", NoVote, "down", VotedDown, EffectInsert},
		{"repeat up retracts", VotedUp, "up", NoVote, EffectDelete},
		{"repeat down retracts", VotedDown, "down", NoVote, EffectDelete},
		{"up switches to down", VotedUp, "down", VotedDown, EffectUpdate},
		{"down switches to up", VotedDown, "up", VotedUp, EffectUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, effect, err := NextVoteState(tt.current, tt.direction)
			if err != nil {
				t.Fatalf("NextVoteState(%v, %q) error: %v", tt.current, tt.direction, err)
			}
			if state != tt.wantState {
				t.Errorf("state = %v, want %v", state, tt.wantState)
			}
			if effect != tt.wantEffect {
				t.Errorf("effect = %v, want %v", effect, tt.wantEffect)
			}
		})
	}
}

func TestNextVoteStateRejectsBadDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		if _, _, err := NextVoteState(NoVote, direction); err != ErrBadDirection {
			t.Errorf("NextVoteState(NoVote, %q) err = %v, want ErrBadDirection", direction, err)
		}
	}
}

func TestVoteToggleRoundTrip(t *testing.T) {
	// A full up, up sequence must land back on NoVote.
	state, effect, err := NextVoteState(NoVote, "up")
	if err != nil || state != VotedUp || effect != EffectInsert {
		t.Fatalf("first up: state=%v effect=%v err=%v", state, effect, err)
	}
	state, effect, err = NextVoteState(state, "up")
	if err != nil || state != NoVote || effect != EffectDelete {
		t.Fatalf("second up: state=%v effect=%v err=%v", state, effect, err)
	}
}

// dryRunDB opens a gorm handle that builds SQL without touching a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "vote:vote@tcp(127.0.0.1:3306)/votes?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestVoteLookupLocksAfterLostInsertRace(t *testing.T) {
	var vote models.Vote

	// The retry read must lock the row so it observes the row the concurrent
	// winner committed, instead of this transaction's earlier snapshot.
	stmt := voteLookup(dryRunDB(t), 1, 2, true).Find(&vote).Statement
	if sql := stmt.SQL.String(); !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("retry lookup = %q, want a FOR UPDATE locking read", sql)
	}

	stmt = voteLookup(dryRunDB(t), 1, 2, false).Find(&vote).Statement
	if sql := stmt.SQL.String(); strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("first lookup = %q, must not take locks", sql)
	}
}

func TestShouldNotify(t *testing.T) {
	ledger := NewVoteLedger(nil)

	tests := []struct {
		name             string
		effect           VoteEffect
		direction        string
		voterID, ownerID uint
		downvote, change bool
		want             bool
	}{
		{"upvote on another user's answer", EffectInsert, models.VoteUp, 1, 2, true, true, true},
		{"voter owns the answer", EffectInsert, models.VoteUp, 7, 7, true, true, false},
		{"downvote with flag on", EffectInsert, models.VoteDown, 1, 2, true, true, true},
		{"downvote with flag off", EffectInsert, models.VoteDown, 1, 2, false, true, false},
		{"switch with change flag on", EffectUpdate, models.VoteUp, 1, 2, true, true, true},
		{"switch with change flag off", EffectUpdate, models.VoteUp, 1, 2, true, false, false},
		{"switch to down needs both flags", EffectUpdate, models.VoteDown, 1, 2, false, true, false},
		{"self switch stays silent", EffectUpdate, models.VoteUp, 7, 7, true, true, false},
		{"retraction is silent", EffectDelete, models.VoteUp, 1, 2, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.SetForTesting(config.AppConfig{
				NotifyOnDownvote:   tt.downvote,
				NotifyOnVoteChange: tt.change,
			})
			got := ledger.shouldNotify(tt.effect, tt.direction, tt.voterID, tt.ownerID)
			if got != tt.want {
				t.Errorf("shouldNotify(%v, %q, voter=%d, owner=%d) = %v, want %v",
					tt.effect, tt.direction, tt.voterID, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestVoteStateString(t *testing.T) {
	tests := []struct {
		state VoteState
		want  string
	}{
		{NoVote, "none"},
		{VotedUp, "up"},
		{VotedDown, "down"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
