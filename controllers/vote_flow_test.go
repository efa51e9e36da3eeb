package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/utils"
)

// newMockDB wires gorm over a sqlmock connection. Expectations are matched in
// order by kind (query vs exec); the SQL text itself is not asserted.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(
		sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error { return nil }),
	))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm over sqlmock: %v", err)
	}
	return db, mock
}

func newEngagementRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "controller-test-secret",
		NotifyOnDownvote:   true,
		NotifyOnVoteChange: true,
	})

	r := gin.New()
	votes := NewVoteController(db)
	notifications := NewNotificationController(db)
	r.POST("/api/v1/votes", middleware.AuthRequired(), votes.CastVote)
	r.GET("/api/v1/notifications/me", middleware.AuthRequired(), notifications.MyNotifications)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (utils.JSONResponse, map[string]interface{}) {
	t.Helper()
	var body utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, w.Body.String())
	}
	data, _ := body.Data.(map[string]interface{})
	return body, data
}

func TestCastVoteFreshVoteCreatesAndNotifiesOwner(t *testing.T) {
	db, mock := newMockDB(t)
	r := newEngagementRouter(db)

	mock.ExpectQuery("answer").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "question_id"}).AddRow(5, 2, 3))
	mock.ExpectQuery("question").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title"}).AddRow(3, "How do slices grow?"))
	mock.ExpectBegin()
	mock.ExpectQuery("vote").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "answer_id", "vote_type"}))
	mock.ExpectExec("insert vote").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("insert notification").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	w := postJSON(r, "/api/v1/votes", `{"answer_id":5,"vote_type":"up"}`, bearer(t))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	_, data := decodeEnvelope(t, w)
	if data["previous"] != "none" || data["current"] != "up" {
		t.Errorf("transition = %v -> %v, want none -> up", data["previous"], data["current"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCastVoteRepeatRetractsWith200(t *testing.T) {
	db, mock := newMockDB(t)
	r := newEngagementRouter(db)

	mock.ExpectQuery("answer").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "question_id"}).AddRow(5, 2, 3))
	mock.ExpectQuery("question").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title"}).AddRow(3, "How do slices grow?"))
	mock.ExpectBegin()
	mock.ExpectQuery("vote").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "answer_id", "vote_type"}).AddRow(9, 1, 5, "up"))
	mock.ExpectExec("delete vote").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postJSON(r, "/api/v1/votes", `{"answer_id":5,"vote_type":"up"}`, bearer(t))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	_, data := decodeEnvelope(t, w)
	if data["previous"] != "up" || data["current"] != "none" {
		t.Errorf("transition = %v -> %v, want up -> none", data["previous"], data["current"])
	}
	// A retraction writes no notification; any attempt would fail the
	// transaction and surface as a 500 above.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCastVoteOnOwnAnswerSkipsNotification(t *testing.T) {
	db, mock := newMockDB(t)
	r := newEngagementRouter(db)

	// The answer belongs to user 1, the same identity bearer issues.
	mock.ExpectQuery("answer").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "question_id"}).AddRow(5, 1, 3))
	mock.ExpectQuery("question").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title"}).AddRow(3, "How do slices grow?"))
	mock.ExpectBegin()
	mock.ExpectQuery("vote").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "answer_id", "vote_type"}))
	mock.ExpectExec("insert vote").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	w := postJSON(r, "/api/v1/votes", `{"answer_id":5,"vote_type":"up"}`, bearer(t))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCastVoteUnknownAnswerReturns404(t *testing.T) {
	db, mock := newMockDB(t)
	r := newEngagementRouter(db)

	mock.ExpectQuery("answer").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "question_id"}))

	w := postJSON(r, "/api/v1/votes", `{"answer_id":404,"vote_type":"up"}`, bearer(t))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body.String())
	}
}

func TestMyNotificationsScopedToActor(t *testing.T) {
	db, mock := newMockDB(t)
	r := newEngagementRouter(db)

	// Both queries must carry the actor's id, never another user's.
	mock.ExpectQuery("count").WithArgs(1).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("list").WithArgs(1, 20).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "type", "message", "is_read", "created_at"}).
			AddRow(21, 1, "answer", "dana answered your question", false, time.Now()).
			AddRow(20, 1, "vote", "dana upvoted your answer", true, time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/me", nil)
	req.Header.Set("Authorization", bearer(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	_, data := decodeEnvelope(t, w)
	if data["total"] != float64(2) {
		t.Errorf("total = %v, want 2", data["total"])
	}
	items, _ := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
