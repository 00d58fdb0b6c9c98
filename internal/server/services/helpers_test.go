package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type sentMail struct {
	to, subject, tmpl string
	vars              map[string]string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendMail(_ context.Context, to, subject string, vars map[string]string, tmpl string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, tmpl: tmpl, vars: vars})
	return m.err
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.VerifyEmailURL = "http://app/verify?token="
	cfg.ForgotPasswordURL = "http://app/reset?token="
	return cfg
}

func discardLogger(t *testing.T) logging.Logger {
	t.Helper()
	l, err := logging.New(logging.BackendSlog, "error", io.Discard)
	require.NoError(t, err)
	return l
}

type env struct {
	deps   Deps
	clock  *timex.FixedClock
	store  *memory.Store
	mailer *recordingMailer
	cfg    *config.Config

	users  *UserService
	verify *VerificationService
	prof   *ProfileService
}

// newEnv wires the services over an in-memory store and a fixed clock.
func newEnv(t *testing.T) *env {
	t.Helper()
	clock := timex.NewFixedClock(t0)
	store := memory.NewStore(clock)
	mailer := &recordingMailer{}
	cfg := testConfig()

	d := Deps{
		Tx:        store.Transactor(),
		Repos:     repomanager.NewInMemoryRepositoryManager(store),
		Clock:     clock,
		Hasher:    auth.NewBcryptHasher(bcrypt.MinCost),
		Codec:     auth.NewCodec(clock),
		Validator: validation.New(),
		Mailer:    mailer,
		Log:       discardLogger(t),
	}

	return &env{
		deps:   d,
		clock:  clock,
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		users:  NewUserService(d, cfg),
		verify: NewVerificationService(d, cfg),
		prof:   NewProfileService(d),
	}
}

func requireRight[T any](t *testing.T, res Result[T], err error) T {
	t.Helper()
	require.NoError(t, err)
	f, _ := res.Left()
	require.Truef(t, res.IsRight(), "expected Right, got Left %v", f)
	v, _ := res.Right()
	return v
}

func requireLeft[T any](t *testing.T, res Result[T], err error) *common.Failure {
	t.Helper()
	require.NoError(t, err)
	require.True(t, res.IsLeft(), "expected Left, got Right")
	f, _ := res.Left()
	require.NotNil(t, f)
	return f
}
