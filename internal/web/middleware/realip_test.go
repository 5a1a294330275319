package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func seenRemoteAddr(t *testing.T, trusted []string, remoteAddr string, headers map[string]string) string {
	t.Helper()

	var seen string
	handler := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	handler.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestTrustedRealIP_TrustedProxy(t *testing.T) {
	got := seenRemoteAddr(t, []string{"127.0.0.1"}, "127.0.0.1:9999", map[string]string{
		"X-Real-IP": "203.0.113.50",
	})
	if got != "203.0.113.50" {
		t.Errorf("RemoteAddr = %q, want header IP", got)
	}
}

func TestTrustedRealIP_UntrustedProxyKeepsRemoteAddr(t *testing.T) {
	got := seenRemoteAddr(t, []string{"127.0.0.1"}, "192.0.2.44:1234", map[string]string{
		"X-Real-IP": "203.0.113.50",
	})
	if got != "192.0.2.44:1234" {
		t.Errorf("RemoteAddr = %q, want original address", got)
	}
}

func TestTrustedRealIP_NoTrustedProxiesConfigured(t *testing.T) {
	got := seenRemoteAddr(t, nil, "127.0.0.1:9999", map[string]string{
		"X-Real-IP": "203.0.113.50",
	})
	if got != "127.0.0.1:9999" {
		t.Errorf("RemoteAddr = %q, want original address", got)
	}
}

func TestTrustedRealIP_ForwardedForChain(t *testing.T) {
	got := seenRemoteAddr(t, []string{"10.0.0.0/8"}, "10.1.2.3:80", map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.1.2.3",
	})
	if got != "203.0.113.7" {
		t.Errorf("RemoteAddr = %q, want first forwarded hop", got)
	}
}

func TestTrustedRealIP_RealIPWinsOverForwardedFor(t *testing.T) {
	got := seenRemoteAddr(t, []string{"127.0.0.1"}, "127.0.0.1:9999", map[string]string{
		"X-Real-IP":       "203.0.113.50",
		"X-Forwarded-For": "198.51.100.1",
	})
	if got != "203.0.113.50" {
		t.Errorf("RemoteAddr = %q, want X-Real-IP value", got)
	}
}

func TestTrustedRealIP_InvalidHeaderIgnored(t *testing.T) {
	got := seenRemoteAddr(t, []string{"127.0.0.1"}, "127.0.0.1:9999", map[string]string{
		"X-Real-IP": "not-an-ip",
	})
	if got != "127.0.0.1:9999" {
		t.Errorf("RemoteAddr = %q, want original address", got)
	}
}

func TestTrustedRealIP_InvalidConfigEntrySkipped(t *testing.T) {
	// Bad entries must not panic or poison the good ones.
	got := seenRemoteAddr(t, []string{"bogus", "", "127.0.0.1"}, "127.0.0.1:9999", map[string]string{
		"X-Real-IP": "203.0.113.50",
	})
	if got != "203.0.113.50" {
		t.Errorf("RemoteAddr = %q, want header IP", got)
	}
}
