package lab

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kochabx/rsalab/core/prime"
	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/metrics"
	"github.com/kochabx/rsalab/transport"
)

var _ transport.Server = (*SelfCheck)(nil)

const selfCheckRounds = 20

var (
	selfCheckPrimes     = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 982451653, 2147483647, 1000000007}
	selfCheckComposites = []int64{4, 6, 8, 9, 10, 12, 14, 15, 16, 18, 20, 21, 22, 24, 25, 26, 27, 28, 561, 1105, 1729, 2465, 2821}
)

// SelfCheckResult is the outcome of one run of the oracle against known values.
type SelfCheckResult struct {
	OK        bool          `json:"ok"`
	CheckedAt time.Time     `json:"checked_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Failures  []string      `json:"failures,omitempty"`
}

// SelfCheck periodically runs the primality oracle against known primes and
// composites. It runs as a server so the application starts and stops it.
type SelfCheck struct {
	oracle  *prime.Oracle
	cron    *cron.Cron
	metrics *metrics.Metrics

	mu   sync.RWMutex
	last *SelfCheckResult

	stop chan struct{}
	once sync.Once
}

type SelfCheckOption func(*SelfCheck)

func WithSelfCheckOracle(o *prime.Oracle) SelfCheckOption {
	return func(c *SelfCheck) {
		if o != nil {
			c.oracle = o
		}
	}
}

func WithSelfCheckMetrics(m *metrics.Metrics) SelfCheckOption {
	return func(c *SelfCheck) {
		c.metrics = m
	}
}

// NewSelfCheck schedules the check with a five-field cron expression or a
// descriptor such as "@every 10m".
func NewSelfCheck(spec string, opts ...SelfCheckOption) (*SelfCheck, error) {
	c := &SelfCheck{
		oracle: prime.NewOracle(nil),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c.cron = cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.cron.AddFunc(spec, func() { c.Check() }); err != nil {
		return nil, ErrInvalidSettings.WithCause(err).WithMetadata(map[string]string{"self_check_spec": spec})
	}
	return c, nil
}

// Check runs the oracle once and stores the result.
func (c *SelfCheck) Check() SelfCheckResult {
	start := time.Now()
	var failures []string

	for _, v := range selfCheckPrimes {
		if !c.oracle.IsProbablePrime(big.NewInt(v), selfCheckRounds) {
			failures = append(failures, strconv.FormatInt(v, 10)+" reported composite")
		}
	}
	for _, v := range selfCheckComposites {
		if c.oracle.IsProbablePrime(big.NewInt(v), selfCheckRounds) {
			failures = append(failures, strconv.FormatInt(v, 10)+" reported prime")
		}
	}

	res := SelfCheckResult{
		OK:        len(failures) == 0,
		CheckedAt: start,
		Elapsed:   time.Since(start),
		Failures:  failures,
	}

	c.mu.Lock()
	c.last = &res
	c.mu.Unlock()

	if c.metrics != nil {
		ok := 0.0
		if res.OK {
			ok = 1
		}
		c.metrics.SelfCheck.Set(ok)
	}
	if res.OK {
		log.Debug().Dur("elapsed", res.Elapsed).Msg("primality self-check passed")
	} else {
		log.Error().Strs("failures", failures).Msg("primality self-check failed")
	}
	return res
}

// Last returns the most recent result, if any.
func (c *SelfCheck) Last() (SelfCheckResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return SelfCheckResult{}, false
	}
	return *c.last, true
}

// Run checks once, starts the schedule and blocks until Shutdown.
func (c *SelfCheck) Run() error {
	c.Check()
	c.cron.Start()
	<-c.stop
	c.cron.Stop()
	return nil
}

// Shutdown stops the schedule and waits for a running check.
func (c *SelfCheck) Shutdown(ctx context.Context) error {
	c.once.Do(func() { close(c.stop) })

	select {
	case <-c.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes cron's logging to the global logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
