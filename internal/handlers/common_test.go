package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"noous-backend/internal/services"
)

func TestDecodeAndValidateInviteRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"code":"ABC123","relationship":"partner"}`, ""},
		{"valid with nickname", `{"code":"XY12Z9","relationship":"friend","nickname":"Bia"}`, ""},
		{"malformed json", `{"code":`, "invalid request body"},
		{"code too short", `{"code":"ABC","relationship":"partner"}`, "invalid field: Code"},
		{"missing code", `{"relationship":"partner"}`, "invalid field: Code"},
		{"bad relationship", `{"code":"ABC123","relationship":"roommate"}`, "invalid field: Relationship"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var req InviteRequest
			err := decodeAndValidate(r, &req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("decodeAndValidate: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeAndValidateCreateSurpriseRequest(t *testing.T) {
	valid := `{"recipient_id":"7f9c24e8-3b12-4b8f-9f10-8a2d3c4e5f60","type":"message","title":"oi","content":"surpresa"}`

	r := httptest.NewRequest("POST", "/", strings.NewReader(valid))
	var req CreateSurpriseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		t.Fatalf("decodeAndValidate: %v", err)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(
		`{"recipient_id":"not-a-uuid","type":"message","title":"oi","content":"x"}`))
	if err := decodeAndValidate(r, &req); err == nil || err.Error() != "invalid field: RecipientID" {
		t.Fatalf("error = %v, want invalid RecipientID", err)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(
		`{"recipient_id":"7f9c24e8-3b12-4b8f-9f10-8a2d3c4e5f60","type":"letter","title":"oi","content":"x"}`))
	if err := decodeAndValidate(r, &req); err == nil || err.Error() != "invalid field: Type" {
		t.Fatalf("error = %v, want invalid Type", err)
	}
}

func TestRespondServiceErrorRateLimit(t *testing.T) {
	w := httptest.NewRecorder()
	respondServiceError(w, &services.RateLimitError{RetryAfter: 15 * time.Minute}, 500)

	if w.Code != 429 {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "900" {
		t.Errorf("Retry-After = %q, want %q", got, "900")
	}
}
