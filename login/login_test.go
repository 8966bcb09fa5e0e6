package login

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestTokenRoundTrip(t *testing.T) {
	token, exp, err := signToken("reader@example.com", time.Hour, false)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if exp <= time.Now().Unix() {
		t.Fatalf("expiry not in the future: %d", exp)
	}
	tp, ok := parseToken(token)
	if !ok {
		t.Fatalf("token did not parse")
	}
	if tp.Email != "reader@example.com" {
		t.Fatalf("unexpected email %q", tp.Email)
	}
	if tp.Rem {
		t.Fatalf("remember flag should be false")
	}
}

func TestTokenTamperRejected(t *testing.T) {
	token, _, _ := signToken("reader@example.com", time.Hour, false)
	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, ok := parseToken(strings.Join(parts, ".")); ok {
		t.Fatalf("tampered token accepted")
	}
}

func TestTokenExpiryRejected(t *testing.T) {
	token, _, _ := signToken("reader@example.com", -time.Minute, false)
	if _, ok := parseToken(token); ok {
		t.Fatalf("expired token accepted")
	}
}

func TestBlacklistedTokenRejected(t *testing.T) {
	token, exp, _ := signToken("reader@example.com", time.Hour, false)
	blacklist[token] = exp
	defer delete(blacklist, token)
	if _, ok := parseToken(token); ok {
		t.Fatalf("blacklisted token accepted")
	}
}

func TestGetEmailFromToken(t *testing.T) {
	token, _, _ := signToken("admin@example.com", time.Hour, true)
	email, ok := GetEmailFromToken(token)
	if !ok || email != "admin@example.com" {
		t.Fatalf("got (%q, %v)", email, ok)
	}
	if _, ok := GetEmailFromToken("not.a.token"); ok {
		t.Fatalf("garbage token accepted")
	}
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := BearerToken(c); got != "abc.def.ghi" {
		t.Fatalf("got %q", got)
	}

	c.Request.Header.Set("Authorization", "Basic xyz")
	if got := BearerToken(c); got != "" {
		t.Fatalf("non-bearer header should yield empty, got %q", got)
	}
}
