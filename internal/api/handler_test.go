package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tenant-exit-portal/config"
	"tenant-exit-portal/internal/apiclient"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/notification"
	"tenant-exit-portal/internal/session"
	"tenant-exit-portal/internal/store"
	"tenant-exit-portal/internal/view"
)

var testCookies = session.Cookies{Secret: []byte("api-test-secret")}

// memStore is an in-memory store.Store.
type memStore struct {
	mu          sync.Mutex
	submissions []model.Submission
	changes     []model.StatusChange
	subs        map[string]model.PushSubscription
	pingErr     error
}

func newMemStore() *memStore {
	return &memStore{subs: make(map[string]model.PushSubscription)}
}

func (m *memStore) RecordSubmission(ctx context.Context, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = int64(len(m.submissions) + 1)
	m.submissions = append(m.submissions, *s)
	return nil
}

func (m *memStore) RecordStatusChange(ctx context.Context, c *model.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, *c)
	return nil
}

func (m *memStore) TenantForRequest(ctx context.Context, requestID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.submissions {
		if s.Kind == model.SubmissionExit && s.RecordID == requestID {
			return s.TenantID, nil
		}
	}
	return "", store.ErrNotFound
}

func (m *memStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.Endpoint] = *sub
	return nil
}

func (m *memStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[endpoint]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sub, nil
}

func (m *memStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, endpoint)
	return nil
}

func (m *memStore) SubscriptionsForTenant(ctx context.Context, tenantID string) ([]model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PushSubscription
	for _, s := range m.subs {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.pingErr
}

// recordingNotifier keeps every dispatched event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.StatusEvent
}

func (n *recordingNotifier) Dispatch(ev notification.StatusEvent) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return true
}

type testPortal struct {
	router   *gin.Engine
	store    *memStore
	notifier *recordingNotifier
	upstream *httptest.Server
}

func newTestPortal(t *testing.T, upstream http.Handler) *testPortal {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(&config.UpstreamConfig{
		BaseURL:       srv.URL,
		SessionCookie: "session",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	st := newMemStore()
	notifier := &recordingNotifier{}
	h := NewHandler(Deps{
		Client:   client,
		Store:    st,
		Tracker:  view.NewTracker(time.Minute),
		Notifier: notifier,
		WebPush:  &webpush.Options{VAPIDPublicKey: "test-public-key", TTL: 60},
		Cookies:  testCookies,
		Logger:   zap.NewNop(),
	})
	h.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	ctl := session.NewController(client, testCookies, zap.NewNop())
	router := NewRouter(h, ctl, RouterOptions{RateLimit: 1000, Burst: 1000, CacheTTL: time.Minute}, zap.NewNop())

	return &testPortal{router: router, store: st, notifier: notifier, upstream: srv}
}

// roleCookies signs a session for role with upstream token "sess-<role>".
func roleCookies(role string) []*http.Cookie {
	v, err := testCookies.Encode(session.State{Token: "sess-" + role, Role: role})
	if err != nil {
		panic(err)
	}
	return []*http.Cookie{{Name: session.CookieSession, Value: v}}
}

func (p *testPortal) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

func (p *testPortal) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return p.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (p *testPortal) postForm(path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(req, cookies...)
}

type filePart struct {
	field, name, body string
}

func (p *testPortal) postMultipart(t *testing.T, path string, values url.Values, file *filePart, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return p.do(req, cookies...)
}

// follow loads the redirect target of w, carrying the flash cookie along.
func (p *testPortal) follow(t *testing.T, w *httptest.ResponseRecorder, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	require.Equal(t, http.StatusSeeOther, w.Code)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieFlash {
			cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return p.get(w.Header().Get("Location"), cookies...)
}

// routes dispatches upstream calls by "METHOD /path".
type routes map[string]http.HandlerFunc

func (rt routes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := rt[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
}

func jsonReply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func statusReply(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}
