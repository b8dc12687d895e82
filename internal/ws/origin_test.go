package ws

import (
	"net/http/httptest"
	"testing"
)

func TestCheckOrigin_NoHeaderAllowed(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	if !CheckOrigin(r) {
		t.Error("request without Origin header should be allowed")
	}
}

func TestCheckOrigin_DefaultLocalhost(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	if !CheckOrigin(r) {
		t.Error("default allowed origin should pass")
	}
}

func TestCheckOrigin_RejectsUnknownOrigin(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "http://evil.example.com")
	if CheckOrigin(r) {
		t.Error("unknown origin should be rejected")
	}
}
