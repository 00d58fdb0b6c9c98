package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/dmitrijs2005/accountkeeper/internal/server/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type captureMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *captureMailer) SendMail(_ context.Context, _, _ string, vars map[string]string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, vars["link"])
	return nil
}

func (m *captureMailer) lastToken(t *testing.T, prefix string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.links)
	link := m.links[len(m.links)-1]
	require.True(t, strings.HasPrefix(link, prefix), link)
	return strings.TrimPrefix(link, prefix)
}

type testEnv struct {
	srv    *HTTPServer
	cfg    *config.Config
	clock  *timex.FixedClock
	mailer *captureMailer
	codec  *auth.Codec
}

func discardLogger(t *testing.T) logging.Logger {
	t.Helper()
	l, err := logging.New(logging.BackendSlog, "error", io.Discard)
	require.NoError(t, err)
	return l
}

func newDeps(t *testing.T, clock timex.Clock, repos repomanager.RepositoryManager, tx dbx.Transactor, mailer *captureMailer, m *metrics.Metrics) services.Deps {
	t.Helper()
	return services.Deps{
		Tx:        tx,
		Repos:     repos,
		Clock:     clock,
		Hasher:    auth.NewBcryptHasher(bcrypt.MinCost),
		Codec:     auth.NewCodec(clock),
		Validator: validation.New(),
		Mailer:    mailer,
		Metrics:   m,
		Log:       discardLogger(t),
	}
}

func newServer(t *testing.T, d services.Deps, cfg *config.Config, g prometheus.Gatherer) *HTTPServer {
	t.Helper()
	svc := Services{
		Users:        services.NewUserService(d, cfg),
		Verification: services.NewVerificationService(d, cfg),
		Profile:      services.NewProfileService(d),
	}
	return NewHTTPServer("127.0.0.1:0", d.Log, svc, d.Codec, cfg.AccessTokenSecret, d.Metrics, g)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := timex.NewFixedClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	mailer := &captureMailer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	reg := prometheus.NewRegistry()
	d := newDeps(t, clock, repomanager.NewInMemoryRepositoryManager(store), store.Transactor(), mailer, metrics.New(reg))

	return &testEnv{
		srv:    newServer(t, d, cfg, reg),
		cfg:    cfg,
		clock:  clock,
		mailer: mailer,
		codec:  d.Codec,
	}
}

type request struct {
	method string
	path   string
	body   string
	header map[string]string
}

func (e *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, e.srv, r)
}

func serve(t *testing.T, srv *HTTPServer, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type sessionBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

func (e *testEnv) registerAndLogin(t *testing.T, name, email, password string) sessionBody {
	t.Helper()
	rec := e.do(t, request{method: http.MethodPost, path: "/users",
		body: `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, request{method: http.MethodPost, path: "/auth/sessions",
		body: `{"email":"` + email + `","password":"` + password + `"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[sessionBody](t, rec)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
