package geoip

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP_XForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := ClientIP(r); ip != "203.0.113.7" {
		t.Fatalf("expected 203.0.113.7, got %s", ip)
	}
}

func TestClientIP_XRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.4")
	if ip := ClientIP(r); ip != "198.51.100.4" {
		t.Fatalf("expected 198.51.100.4, got %s", ip)
	}
}

func TestClientIP_RemoteAddrFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	if ip := ClientIP(r); ip != "192.0.2.10" {
		t.Fatalf("expected 192.0.2.10, got %s", ip)
	}
}

func TestIsPrivateIP(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.0.5": true,
		"169.254.0.1": true,
		"not-an-ip":   true,
		"203.0.113.7": false,
	}
	for ip, want := range cases {
		if got := IsPrivate(ip); got != want {
			t.Errorf("IsPrivate(%s) = %v, want %v", ip, got, want)
		}
	}
}
