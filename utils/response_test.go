package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func record(t *testing.T, write func(ctx *gin.Context)) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	write(ctx)

	var body JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := record(t, func(ctx *gin.Context) {
		Success(ctx, gin.H{"id": 7})
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body.Code != 0 || body.Message != "success" {
		t.Fatalf("envelope = %+v, want code 0 message success", body)
	}
	if body.Data == nil {
		t.Fatal("expected data in success envelope")
	}
}

func TestCreatedEnvelope(t *testing.T) {
	w, body := record(t, func(ctx *gin.Context) {
		Created(ctx, gin.H{"id": 7})
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if body.Code != 0 {
		t.Fatalf("code = %d, want 0", body.Code)
	}
}

func TestErrorEnvelopeOmitsData(t *testing.T) {
	w, body := record(t, func(ctx *gin.Context) {
		Error(ctx, http.StatusForbidden, 40320, "not the owner")
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if body.Code != 40320 || body.Message != "not the owner" {
		t.Fatalf("envelope = %+v", body)
	}
	if body.Data != nil {
		t.Fatalf("error envelope should omit data, got %v", body.Data)
	}
}
