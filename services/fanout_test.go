package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/moringadesk/moringadesk/models"
)

type fakeThreadReader struct {
	answerers []uint
	followers []uint
	err       error
}

func (f fakeThreadReader) AnswerAuthorIDs(uint) ([]uint, error)   { return f.answerers, f.err }
func (f fakeThreadReader) FollowUpAuthorIDs(uint) ([]uint, error) { return f.followers, f.err }

func question(ownerID uint) *models.Question {
	return &models.Question{ID: 1, UserID: ownerID, Title: "how do I parse json"}
}

func TestRecipientsExcludesActor(t *testing.T) {
	store := fakeThreadReader{answerers: []uint{2, 3}, followers: []uint{3, 4}}

	// Actor 3 qualifies as both co-answerer and co-follower but must never
	// receive a notification about their own contribution.
	got, err := Recipients(store, question(1), 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range got {
		if r.UserID == 3 {
			t.Errorf("actor 3 appeared in recipients with reason %q", r.Reason)
		}
	}
}

func TestRecipientsOwnerExcludedWhenActing(t *testing.T) {
	store := fakeThreadReader{answerers: []uint{1, 2}}

	// The owner follows up on their own question: only user 2 qualifies.
	got, err := Recipients(store, question(1), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].UserID != 2 {
		t.Fatalf("recipients = %v, want exactly user 2", got)
	}
}

func TestRecipientsDeduplicatesWithOwnerPrecedence(t *testing.T) {
	// Owner 1 also answered and followed up on their own thread. They get one
	// notification and its reason is owner, not co-answerer.
	store := fakeThreadReader{answerers: []uint{1, 2}, followers: []uint{1, 2}}

	got, err := Recipients(store, question(1), 9)
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[uint]int)
	for _, r := range got {
		counts[r.UserID]++
	}
	for id, n := range counts {
		if n > 1 {
			t.Errorf("user %d received %d entries, want 1", id, n)
		}
	}
	if got[0].UserID != 1 || got[0].Reason != ReasonOwner {
		t.Errorf("first recipient = %+v, want owner 1 with reason %q", got[0], ReasonOwner)
	}
}

func TestRecipientsFullThread(t *testing.T) {
	// Question by U1, answered by U2, followed up by U3. A new answer from U4
	// notifies all three with their respective reasons.
	store := fakeThreadReader{answerers: []uint{2}, followers: []uint{3}}

	got, err := Recipients(store, question(1), 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Recipient{
		{UserID: 1, Reason: ReasonOwner},
		{UserID: 2, Reason: ReasonCoAnswerer},
		{UserID: 3, Reason: ReasonCoFollowUp},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d recipients, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recipient[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRecipientsPropagatesStoreError(t *testing.T) {
	store := fakeThreadReader{err: errors.New("connection lost")}
	if _, err := Recipients(store, question(1), 2); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestContributionMessages(t *testing.T) {
	tests := []struct {
		name   string
		render func(string, string, Reason) string
		reason Reason
		want   string
	}{
		{"answer to owner", AnswerMessage, ReasonOwner, "answered your question"},
		{"answer to co-answerer", AnswerMessage, ReasonCoAnswerer, "a question you answered"},
		{"answer to co-follower", AnswerMessage, ReasonCoFollowUp, "you followed up on"},
		{"followup to owner", FollowUpMessage, ReasonOwner, "follow-up on your question"},
		{"followup to co-answerer", FollowUpMessage, ReasonCoAnswerer, "a question you answered"},
		{"followup to co-follower", FollowUpMessage, ReasonCoFollowUp, "also followed up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.render("dana", "how do I parse json", tt.reason)
			if !strings.Contains(got, tt.want) {
				t.Errorf("message %q does not contain %q", got, tt.want)
			}
			if !strings.Contains(got, "dana") {
				t.Errorf("message %q does not name the actor", got)
			}
		})
	}
}
