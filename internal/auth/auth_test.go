package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken(testSecret, "dashboard", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "dashboard" {
		t.Fatalf("subject=%q", sub)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := GenerateToken(testSecret, "old", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	otherKey, err := GenerateToken([]byte("other"), "x", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"no expiry":   noExp,
		"not a token": "garbage",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(testSecret, tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	if _, err := GenerateToken(nil, "x", time.Hour); err == nil {
		t.Fatal("expected error")
	}
}

func TestMiddleware(t *testing.T) {
	var gotSubject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	good, err := GenerateToken(testSecret, "cli", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		secret []byte
		header string
		want   int
	}{
		{"disabled passes through", nil, "", http.StatusTeapot},
		{"missing header", testSecret, "", http.StatusUnauthorized},
		{"wrong scheme", testSecret, "Basic abc", http.StatusUnauthorized},
		{"bad token", testSecret, "Bearer nope", http.StatusUnauthorized},
		{"good token", testSecret, "Bearer " + good, http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotSubject = ""
			h := New(tc.secret).Wrap(next)
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tc.want, rr.Body.String())
			}
			if tc.name == "good token" && gotSubject != "cli" {
				t.Fatalf("subject=%q", gotSubject)
			}
		})
	}
}
