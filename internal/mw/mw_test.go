package mw

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"tenant-exit-portal/internal/session"
)

var testCookies = session.Cookies{Secret: []byte("mw-test-secret")}

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, token, role string) *http.Cookie {
	t.Helper()
	v, err := testCookies.Encode(session.State{Token: token, Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: session.CookieSession, Value: v}
}

// tamperRole rewrites the role claim of a signed value and keeps the old
// signature.
func tamperRole(t *testing.T, raw, role string) string {
	t.Helper()
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("not a compact token: %q", raw)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	claims := map[string]any{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatal(err)
	}
	claims["role"] = role
	payload, err = json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(payload)
	return strings.Join(parts, ".")
}

func unsignedToken(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"tok":  "s",
		"role": role,
		"iss":  "tenant-exit-portal",
		"aud":  "session",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	v, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCache_PerSession(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0
	r := gin.New()
	r.GET("/landlord", RequireRole(testCookies, session.RoleLandlord), Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, "page for %s", Session(c).Token)
	})

	alice := signed(t, "alice", session.RoleLandlord)
	bob := signed(t, "bob", session.RoleLandlord)

	w := get(r, "/landlord", alice)
	assert.Equal(t, "page for alice", w.Body.String())
	w = get(r, "/landlord", alice)
	assert.Equal(t, "page for alice", w.Body.String())
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	w = get(r, "/landlord", bob)
	assert.Equal(t, "page for bob", w.Body.String())
	assert.Equal(t, 2, calls)

	Invalidate(store, "alice")
	get(r, "/landlord", alice)
	assert.Equal(t, 3, calls)
	get(r, "/landlord", bob)
	assert.Equal(t, 3, calls, "bob's page stays cached")
}

func TestCache_SkipsErrorsAndFlash(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0
	r := gin.New()
	r.GET("/broken", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.String(http.StatusBadGateway, "upstream down")
	})
	r.GET("/page", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, "ok")
	})

	get(r, "/broken")
	get(r, "/broken")
	assert.Equal(t, 2, calls)

	flash := &http.Cookie{Name: session.CookieFlash, Value: "x"}
	get(r, "/page", flash)
	get(r, "/page", flash)
	assert.Equal(t, 4, calls)
	assert.Empty(t, store.Items())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(r, "/").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientLimiters_ReusesBucket(t *testing.T) {
	l := NewClientLimiters(rate.Limit(5), 1, time.Minute)
	a := l.For("10.0.0.1")
	assert.Same(t, a, l.For("10.0.0.1"))
	assert.NotSame(t, a, l.For("10.0.0.2"))
	assert.Equal(t, "1", l.retryAfter())
	assert.Equal(t, "4", NewClientLimiters(rate.Limit(0.25), 1, time.Minute).retryAfter())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		assert.NotEmpty(t, RequestID(c))
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	w := get(r, "/ok")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	fixed := uuid.NewString()
	req.Header.Set(RequestIDHeader, fixed)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, fixed, w.Header().Get(RequestIDHeader))

	get(r, "/fail")

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.EqualValues(t, http.StatusBadGateway, entries[2].ContextMap()["status"])
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRole(testCookies, session.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, Session(c).Role)
	})
	r.GET("/admin/fragments/exit-requests", RequireRole(testCookies, session.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := get(r, "/admin", signed(t, "s", session.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	w = get(r, "/admin", signed(t, "s", session.RoleTenant))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = get(r, "/admin/fragments/exit-requests")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_RejectsForgedSessions(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRole(testCookies, session.RoleAdmin), func(c *gin.Context) {
		t.Error("forged session reached the handler")
		c.Status(http.StatusOK)
	})
	r.GET("/admin/fragments/exit-requests", RequireRole(testCookies, session.RoleAdmin), func(c *gin.Context) {
		t.Error("forged session reached the handler")
		c.Status(http.StatusOK)
	})

	tenant := signed(t, "s", session.RoleTenant)
	otherKey, err := session.Cookies{Secret: []byte("another-secret")}.Encode(session.State{Token: "s", Role: session.RoleAdmin})
	assert.NoError(t, err)
	tampered := tamperRole(t, signed(t, "s", session.RoleTenant).Value, session.RoleAdmin)

	tests := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{"legacy role cookie beside tenant session", []*http.Cookie{tenant, {Name: "portal_role", Value: session.RoleAdmin}}},
		{"signed with another key", []*http.Cookie{{Name: session.CookieSession, Value: otherKey}}},
		{"payload edited after signing", []*http.Cookie{{Name: session.CookieSession, Value: tampered}}},
		{"unsigned value", []*http.Cookie{{Name: session.CookieSession, Value: "admin"}}},
		{"unsigned token", []*http.Cookie{{Name: session.CookieSession, Value: unsignedToken(t, session.RoleAdmin)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/admin", tt.cookies...)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))

			w = get(r, "/admin/fragments/exit-requests", tt.cookies...)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/nowhere").Code)
}
