package app

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	khttp "github.com/kochabx/rsalab/transport/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeServer blocks in Run until Shutdown is called.
type fakeServer struct {
	runErr   error
	stop     chan struct{}
	once     sync.Once
	shutdown bool
}

func newFakeServer(runErr error) *fakeServer {
	return &fakeServer{runErr: runErr, stop: make(chan struct{})}
}

func (s *fakeServer) Run() error {
	if s.runErr != nil {
		return s.runErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.once.Do(func() {
		s.shutdown = true
		close(s.stop)
	})
	return nil
}

func TestNew(t *testing.T) {
	app := New(
		WithServer(khttp.NewServer("127.0.0.1:18090", gin.New()), nil),
		WithClose("noop", func(context.Context) error { return nil }, 0),
		WithClose("nil", nil, 0),
	)

	info := app.Info()
	assert.Equal(t, 1, info.ServerCount)
	assert.Equal(t, 1, info.CloseCount)
	assert.False(t, info.Started)
	assert.Equal(t, app.closeTimeout, app.closeFuncs[0].Timeout)
}

func TestStartAndStop(t *testing.T) {
	server := newFakeServer(nil)
	var closed []string
	var mu sync.Mutex
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			closed = append(closed, name)
			return nil
		}
	}

	app := New(
		WithServer(server),
		WithClose("pool", record("pool"), time.Second),
		WithClose("db", record("db"), time.Second),
	)
	require.NoError(t, app.RegisterClose("logger", record("logger"), time.Second))

	go func() {
		time.Sleep(50 * time.Millisecond)
		app.Stop()
	}()

	require.NoError(t, app.Start())
	assert.True(t, server.shutdown)
	assert.Equal(t, []string{"logger", "db", "pool"}, closed)
	assert.True(t, app.Info().Started)
	assert.ErrorIs(t, app.Start(), ErrAlreadyStarted)
}

func TestStartWithHTTPServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	app := New(WithContext(ctx), WithServer(khttp.NewServer("127.0.0.1:18091", gin.New())))
	assert.NoError(t, app.Start())
}

func TestServerFailureStopsApplication(t *testing.T) {
	failing := newFakeServer(stderrors.New("address already in use"))
	healthy := newFakeServer(nil)
	closed := false

	app := New(
		WithServer(failing, healthy),
		WithClose("flag", func(context.Context) error { closed = true; return nil }, time.Second),
	)

	err := app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.True(t, healthy.shutdown)
	assert.True(t, closed, "close functions run after a failure too")
}

func TestCloseErrorsAreReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flushFailed := stderrors.New("flush failed")
	app := New(
		WithContext(ctx),
		WithClose("journal", func(context.Context) error { return flushFailed }, time.Second),
		WithClose("ok", func(context.Context) error { return nil }, time.Second),
	)

	err := app.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, flushFailed)
	assert.Contains(t, err.Error(), "close journal")
}

func TestNoServers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, New(WithContext(ctx)).Start())
}

func TestRegisterNilClose(t *testing.T) {
	assert.ErrorIs(t, New().RegisterClose("nil", nil, 0), ErrNilCloseFunc)
}

func TestCloseFuncPanic(t *testing.T) {
	app := New()
	err := app.runCloseTask(CloseFunc{Name: "panic", Fn: func(context.Context) error { panic("boom") }, Timeout: time.Second})
	assert.ErrorIs(t, err, ErrClosePanic)
}

func TestCloseFuncTimeout(t *testing.T) {
	app := New()
	err := app.runCloseTask(CloseFunc{
		Name: "slow",
		Fn: func(ctx context.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		},
		Timeout: 20 * time.Millisecond,
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptionValidation(t *testing.T) {
	app := New(WithShutdownTimeout(-1), WithCloseTimeout(0), WithSignals(), WithContext(nil))
	assert.Equal(t, 30*time.Second, app.shutdownTimeout)
	assert.Equal(t, 10*time.Second, app.closeTimeout)
	assert.Len(t, app.signals, 3)
	assert.NotNil(t, app.ctx)
}
