package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := Subject(r.Context())
		w.Write([]byte(subject))
	})
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"), "ports share the client budget")
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestIssueAndValidate(t *testing.T) {
	env := &Authenv{JWTkey: []byte("secret"), Now: fixedClock()}
	token, err := env.IssueToken("line-3", time.Hour)
	require.NoError(t, err)

	subject, err := env.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "line-3", subject)
}

func TestValidate_Rejects(t *testing.T) {
	env := &Authenv{JWTkey: []byte("secret"), Now: fixedClock()}
	expired, err := env.IssueToken("a", -time.Minute)
	require.NoError(t, err)
	other, err := (&Authenv{JWTkey: []byte("other"), Now: fixedClock()}).IssueToken("a", time.Hour)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "a",
		ExpiresAt: jwt.NewNumericDate(fixedClock()().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": other,
		"no expiry": noExp,
		"HS512":     hs512,
		"garbage":   "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.Validate(token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestEmptyKey(t *testing.T) {
	env := &Authenv{}
	_, err := env.IssueToken("a", time.Hour)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = env.Validate("x")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestAuthMiddleware(t *testing.T) {
	env := &Authenv{JWTkey: []byte("secret"), Now: fixedClock()}
	token, err := env.IssueToken("line-3", time.Hour)
	require.NoError(t, err)
	h := env.AuthMiddleware(okHandler())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "line-3", rec.Body.String())
			}
		})
	}
}
