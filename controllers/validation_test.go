package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/utils"
)

// The tests here exercise the request validation layer, which rejects bad
// payloads before any storage access, so no database is wired up.

func newValidationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{JWTSecret: "controller-test-secret"})

	r := gin.New()
	auth := NewAuthController(nil)
	votes := NewVoteController(nil)
	followUps := NewFollowUpController(nil)

	r.POST("/api/v1/auth/register", auth.Register)
	r.POST("/api/v1/auth/login", auth.Login)
	r.POST("/api/v1/votes", middleware.AuthRequired(), votes.CastVote)
	r.POST("/api/v1/followups", middleware.AuthRequired(), followUps.CreateFollowUp)
	return r
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(1, "tester", models.RoleMember, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func postJSON(r *gin.Engine, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterValidation(t *testing.T) {
	r := newValidationRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"short username", `{"username":"ab","email":"a@b.com","password":"secret1"}`},
		{"bad email", `{"username":"dana","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"username":"dana","email":"a@b.com","password":"123"}`},
		{"not json", `username=dana`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/auth/register", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	r := newValidationRouter()

	w := postJSON(r, "/api/v1/auth/login", `{"username":"dana"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", w.Code)
	}
}

func TestCastVoteValidation(t *testing.T) {
	r := newValidationRouter()

	if w := postJSON(r, "/api/v1/votes", `{"answer_id":1,"vote_type":"up"}`, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated vote: status = %d, want 401", w.Code)
	}

	auth := bearer(t)
	tests := []struct {
		name string
		body string
	}{
		{"missing answer_id", `{"vote_type":"up"}`},
		{"missing vote_type", `{"answer_id":1}`},
		{"empty body", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/votes", tt.body, auth)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateFollowUpValidation(t *testing.T) {
	r := newValidationRouter()
	auth := bearer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing question_id", `{"content":"more detail please"}`},
		{"missing content", `{"question_id":1}`},
		{"whitespace content", `{"question_id":1,"content":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/followups", tt.body, auth)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}
