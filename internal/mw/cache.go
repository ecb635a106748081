package mw

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"tenant-exit-portal/internal/session"
)

// snapshot is a rendered page kept for replay.
type snapshot struct {
	status int
	header http.Header
	body   []byte
}

// perRequestHeaders are never replayed from a snapshot.
var perRequestHeaders = []string{RequestIDHeader, "Set-Cookie"}

func (s snapshot) replay(c *gin.Context) {
	h := c.Writer.Header()
	for k, v := range s.header {
		h[k] = v
	}
	h.Set("X-Cache", "HIT")
	c.Writer.WriteHeader(s.status)
	_, _ = c.Writer.Write(s.body)
}

// teeWriter copies the response body aside while it is written.
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// snapshot returns what was written, or false when the response must not be kept:
// anything outside 2xx, and anything that sets a cookie.
func (w *teeWriter) snapshot() (snapshot, bool) {
	status := w.Status()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return snapshot{}, false
	}
	if len(w.Header().Values("Set-Cookie")) > 0 {
		return snapshot{}, false
	}
	header := w.Header().Clone()
	for _, k := range perRequestHeaders {
		header.Del(k)
	}
	return snapshot{status: status, header: header, body: bytes.Clone(w.buf.Bytes())}, true
}

// CacheKey scopes a cached page to the session that requested it.
func CacheKey(token, requestURI string) string {
	return token + "\x00" + requestURI
}

// Cache replays GET pages per session for the given duration. It must run
// after RequireRole. Requests carrying a flash message always reach the handler.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || hasFlash(c) {
			c.Next()
			return
		}

		key := CacheKey(Session(c).Token, c.Request.RequestURI)
		if v, found := store.Get(key); found {
			v.(snapshot).replay(c)
			c.Abort()
			return
		}

		tee := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tee
		c.Next()

		if snap, ok := tee.snapshot(); ok {
			store.Set(key, snap, duration)
		}
	}
}

func hasFlash(c *gin.Context) bool {
	v, err := c.Cookie(session.CookieFlash)
	return err == nil && v != ""
}

// Invalidate drops every cached page of one session.
func Invalidate(store *cache.Cache, token string) {
	prefix := CacheKey(token, "")
	for key := range store.Items() {
		if strings.HasPrefix(key, prefix) {
			store.Delete(key)
		}
	}
}

// InvalidateAll drops every cached page.
func InvalidateAll(store *cache.Cache) {
	store.Flush()
}
