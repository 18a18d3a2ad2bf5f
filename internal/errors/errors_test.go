package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeAPIClient, "test error message")

	if err.Code != ErrCodeAPIClient {
		t.Errorf("expected code %s, got %s", ErrCodeAPIClient, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeStorageRead, "failed to read", cause)

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := Wrap(ErrCodeNetworkUnreachable, "backend unreachable", fmt.Errorf("dial tcp: refused")).
		WithSuggestion("check the api url")

	got := err.Error()
	for _, want := range []string{"[NET-001]", "backend unreachable", "dial tcp: refused", "Suggestions:", "check the api url"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want Kind
	}{
		{ErrCodeNetworkUnreachable, KindNetwork},
		{ErrCodeNetworkTimeout, KindNetwork},
		{ErrCodeAPIClient, KindClient},
		{ErrCodeAPIServer, KindServer},
		{ErrCodeAPIDecode, KindDecode},
		{ErrCodeAPIContractViolation, KindDecode},
		{ErrCodeSessionExpired, KindAuth},
		{ErrCodeNotAuthenticated, KindAuth},
		{ErrCodeStorageWrite, KindStorage},
		{ErrCodeConfigInvalid, KindConfig},
		{ErrorCode("X-1"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "m").Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	if CodeForStatus(http.StatusUnauthorized) != ErrCodeSessionExpired {
		t.Error("401 should map to session expired")
	}
	if CodeForStatus(http.StatusForbidden) != ErrCodeForbidden {
		t.Error("403 should map to forbidden")
	}
	if CodeForStatus(http.StatusBadGateway) != ErrCodeAPIServer {
		t.Error("502 should map to server error")
	}
	if CodeForStatus(http.StatusConflict) != ErrCodeAPIClient {
		t.Error("409 should map to client error")
	}
}

func TestIsUnauthorized(t *testing.T) {
	unauthorized := New(ErrCodeSessionExpired, "expired").WithRequest("/auth/me", 401, "req-1")
	wrapped := fmt.Errorf("get me: %w", unauthorized)

	if !IsUnauthorized(wrapped) {
		t.Error("expected wrapped 401 to be unauthorized")
	}
	if IsUnauthorized(New(ErrCodeAPIServer, "boom").WithRequest("/auth/me", 500, "")) {
		t.Error("500 must not be unauthorized")
	}
	if IsUnauthorized(fmt.Errorf("plain")) {
		t.Error("plain errors are never unauthorized")
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Error("nil error should have empty message")
	}
	if got := Message(fmt.Errorf("wrap: %w", New(ErrCodeAPIClient, "human text"))); got != "human text" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("Message() = %q", got)
	}
}

func TestIsCode(t *testing.T) {
	err := NewNotAuthenticatedError()
	if !IsCode(err, ErrCodeNotAuthenticated) {
		t.Error("expected AUTH-001")
	}
	if IsCode(err, ErrCodeSessionExpired) {
		t.Error("unexpected AUTH-002")
	}
	if len(err.Suggestions) == 0 {
		t.Error("expected suggestions on not-authenticated error")
	}
}
