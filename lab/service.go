// Package lab is the service layer of rsalab: it owns the session, runs the
// CPU-bound core operations on a worker pool and journals what happened.
package lab

import (
	"context"
	"math/big"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/semaphore"

	"github.com/kochabx/rsalab/core/prime"
	"github.com/kochabx/rsalab/core/rsa"
	"github.com/kochabx/rsalab/core/tag"
	"github.com/kochabx/rsalab/core/validator"
	"github.com/kochabx/rsalab/errors"
	"github.com/kochabx/rsalab/journal"
	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/metrics"
)

// Operation names used for metrics labels.
const (
	OpGeneratePrimes = "generate_primes"
	OpGenerateKeys   = "generate_keys"
	OpValidateKeys   = "validate_keys"
	OpEncrypt        = "encrypt"
	OpDecrypt        = "decrypt"
)

type Service struct {
	settings  Settings
	session   *Session
	generator *prime.Generator
	pool      *ants.Pool
	sem       *semaphore.Weighted
	metrics   *metrics.Metrics
	journal   journal.Recorder
	selfCheck *SelfCheck
	probes    map[string]Probe
	version   string
	started   time.Time
}

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

type Option func(*Service)

// WithGenerator replaces the prime generator, e.g. to inject a seeded source.
func WithGenerator(g *prime.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

func WithSession(sess *Session) Option {
	return func(s *Service) {
		if sess != nil {
			s.session = sess
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithJournal(r journal.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.journal = r
		}
	}
}

// WithSelfCheck makes readiness depend on the outcome of c.
func WithSelfCheck(c *SelfCheck) Option {
	return func(s *Service) {
		s.selfCheck = c
	}
}

// WithProbe adds a named dependency check to readiness.
func WithProbe(name string, p Probe) Option {
	return func(s *Service) {
		if p != nil {
			s.probes[name] = p
		}
	}
}

func WithVersion(v string) Option {
	return func(s *Service) {
		s.version = v
	}
}

// NewService validates settings and starts the worker pool. Close releases it.
func NewService(settings Settings, opts ...Option) (*Service, error) {
	if err := tag.ApplyDefaults(&settings); err != nil {
		return nil, ErrInvalidSettings.WithCause(err)
	}
	if err := validator.Validate.Struct(&settings); err != nil {
		return nil, ErrInvalidSettings.WithCause(err)
	}

	s := &Service{
		settings: settings,
		session:  NewSession(),
		journal:  journal.Nop{},
		probes:   make(map[string]Probe),
		version:  "dev",
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = prime.NewGenerator()
	}

	pool, err := ants.NewPool(settings.WorkerPoolSize, ants.WithPanicHandler(func(r any) {
		log.Error().Interface("panic", r).Msg("lab worker panicked")
	}))
	if err != nil {
		return nil, ErrInvalidSettings.WithCause(err)
	}
	s.pool = pool
	s.sem = semaphore.NewWeighted(int64(settings.MaxConcurrentOperations))

	if s.metrics != nil {
		s.metrics.RegisterPool(pool.Running, pool.Cap)
	}
	return s, nil
}

// Close waits up to timeout for running operations and releases the pool.
func (s *Service) Close(timeout time.Duration) error {
	return s.pool.ReleaseTimeout(timeout)
}

func (s *Service) Settings() Settings {
	return s.settings
}

func (s *Service) Session() *Session {
	return s.session
}

// GeneratePrimes draws a new prime pair and makes it the session's pair. Zero
// arguments select the configured defaults.
func (s *Service) GeneratePrimes(ctx context.Context, bitLength, rounds int) (*prime.Pair, error) {
	if bitLength == 0 {
		bitLength = s.settings.DefaultBitLength
	}
	if rounds == 0 {
		rounds = s.settings.DefaultRounds
	}

	entry := &journal.Entry{Kind: journal.KindGeneratePrimes, BitLength: bitLength, Rounds: rounds}
	start := time.Now()

	if err := s.checkPrimeRequest(bitLength, rounds); err != nil {
		s.finish(ctx, OpGeneratePrimes, entry, start, err)
		return nil, err
	}

	pair, err := submit(ctx, s, func() (*prime.Pair, error) {
		return s.generator.GeneratePair(bitLength, rounds)
	})
	if err == nil {
		s.session.SetPair(pair)
		if s.metrics != nil {
			s.metrics.Candidates.Add(float64(pair.Candidates()))
		}
	}
	s.finish(ctx, OpGeneratePrimes, entry, start, err)
	return pair, err
}

func (s *Service) checkPrimeRequest(bitLength, rounds int) error {
	st := s.settings
	switch {
	case bitLength < st.MinPrimeBitLength || bitLength > st.MaxPrimeBitLength:
		return invalid("bit_length", "must be between "+strconv.Itoa(st.MinPrimeBitLength)+" and "+strconv.Itoa(st.MaxPrimeBitLength))
	case bitLength%8 != 0:
		return invalid("bit_length", "must be divisible by 8")
	case rounds < st.MinRounds || rounds > st.MaxRounds:
		return invalid("miller_rabin_rounds", "must be between "+strconv.Itoa(st.MinRounds)+" and "+strconv.Itoa(st.MaxRounds))
	}
	return nil
}

// ClearPrimes drops the session's primes and keys.
func (s *Service) ClearPrimes() {
	s.session.Clear()
}

// GenerateKeys derives a key pair from the session's primes.
func (s *Service) GenerateKeys(ctx context.Context) (*rsa.KeyPair, error) {
	entry := &journal.Entry{Kind: journal.KindGenerateKeys}
	start := time.Now()

	pair := s.session.Pair()
	if pair == nil {
		s.finish(ctx, OpGenerateKeys, entry, start, ErrNoPrimes)
		return nil, ErrNoPrimes
	}
	entry.BitLength = pair.BitLength()

	kp, err := submit(ctx, s, func() (*rsa.KeyPair, error) {
		return rsa.Derive(pair)
	})
	if err == nil && !s.session.SetKeyPair(pair, kp) {
		err = ErrNoPrimes
	}
	if err == nil {
		log.Debug().Str("n", FormatLargeNumber(kp.N(), 40)).Int("n_bits", kp.N().BitLen()).Msg("key pair derived")
	}
	s.finish(ctx, OpGenerateKeys, entry, start, err)
	if err != nil {
		return nil, err
	}
	return kp, nil
}

// ValidateKeys re-runs the sentinel check on the session's key pair.
func (s *Service) ValidateKeys(ctx context.Context) (bool, error) {
	entry := &journal.Entry{Kind: journal.KindValidateKeys}
	start := time.Now()

	kp := s.session.KeyPair()
	if kp == nil {
		s.finish(ctx, OpValidateKeys, entry, start, ErrNoKeys)
		return false, ErrNoKeys
	}
	entry.BitLength = kp.N().BitLen()

	verr, err := submit(ctx, s, func() (error, error) {
		return kp.Validate(), nil
	})
	if err != nil {
		s.finish(ctx, OpValidateKeys, entry, start, err)
		return false, err
	}
	s.finish(ctx, OpValidateKeys, entry, start, verr)
	return verr == nil, nil
}

// Encrypt encrypts message under (n, e).
func (s *Service) Encrypt(ctx context.Context, message string, n, e *big.Int) (*rsa.Operation, error) {
	entry := &journal.Entry{Kind: journal.KindEncrypt, Length: utf8.RuneCountInString(message)}
	start := time.Now()

	err := s.checkMessage(message)
	if err == nil {
		err = s.checkOperands(map[string]*big.Int{"n": n, "e": e})
	}
	if err != nil {
		s.finish(ctx, OpEncrypt, entry, start, err)
		return nil, err
	}
	if n != nil {
		entry.BitLength = n.BitLen()
	}

	op, err := submit(ctx, s, func() (*rsa.Operation, error) {
		return rsa.Encrypt(message, n, e)
	})
	if err == nil {
		entry.Blocks = len(op.Blocks)
	}
	s.finish(ctx, OpEncrypt, entry, start, err)
	return op, err
}

func (s *Service) checkMessage(message string) error {
	switch l := utf8.RuneCountInString(message); {
	case l == 0:
		return invalid("message", "must not be empty")
	case l > s.settings.MaxMessageLength:
		return invalid("message", "must be at most "+strconv.Itoa(s.settings.MaxMessageLength)+" characters")
	}
	return nil
}

// checkOperands rejects values wider than Settings.MaxOperandBits. Nil values
// are left to the engine.
func (s *Service) checkOperands(values map[string]*big.Int) error {
	limit := s.settings.MaxOperandBits()
	md := make(map[string]string)
	for field, v := range values {
		if v != nil && v.BitLen() > limit {
			md[field] = "must be at most " + strconv.Itoa(limit) + " bits"
		}
	}
	if len(md) > 0 {
		return ErrInvalidRequest.WithMetadata(md)
	}
	return nil
}

// Decrypt decrypts cipher blocks under (n, d).
func (s *Service) Decrypt(ctx context.Context, blocks []*big.Int, n, d *big.Int) (*rsa.Operation, error) {
	entry := &journal.Entry{Kind: journal.KindDecrypt, Blocks: len(blocks)}
	start := time.Now()

	if len(blocks) == 0 {
		err := invalid("encrypted_blocks", "must contain at least one block")
		s.finish(ctx, OpDecrypt, entry, start, err)
		return nil, err
	}
	operands := map[string]*big.Int{"n": n, "d": d}
	for i, b := range blocks {
		operands["encrypted_blocks["+strconv.Itoa(i)+"]"] = b
	}
	if err := s.checkOperands(operands); err != nil {
		s.finish(ctx, OpDecrypt, entry, start, err)
		return nil, err
	}
	if n != nil {
		entry.BitLength = n.BitLen()
	}

	op, err := submit(ctx, s, func() (*rsa.Operation, error) {
		return rsa.Decrypt(blocks, n, d)
	})
	if err == nil {
		entry.Length = utf8.RuneCountInString(op.Text)
	}
	s.finish(ctx, OpDecrypt, entry, start, err)
	return op, err
}

// EncryptWithStoredKeys encrypts message with the session's public key.
func (s *Service) EncryptWithStoredKeys(ctx context.Context, message string) (*rsa.Operation, error) {
	kp := s.session.KeyPair()
	if kp == nil {
		return nil, ErrNoKeys
	}
	return s.Encrypt(ctx, message, kp.N(), kp.E())
}

// DecryptWithStoredKeys decrypts blocks with the session's private key.
func (s *Service) DecryptWithStoredKeys(ctx context.Context, blocks []*big.Int) (*rsa.Operation, error) {
	kp := s.session.KeyPair()
	if kp == nil {
		return nil, ErrNoKeys
	}
	return s.Decrypt(ctx, blocks, kp.N(), kp.D())
}

// Operations lists recent journal entries, newest first.
func (s *Service) Operations(ctx context.Context, limit int) ([]journal.Entry, error) {
	return s.journal.Recent(ctx, limit)
}

// finish records metrics and a journal entry for one operation.
func (s *Service) finish(ctx context.Context, op string, entry *journal.Entry, start time.Time, err error) {
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, elapsed, err)
	}

	entry.SessionID = s.session.ID()
	entry.Elapsed = elapsed
	entry.Success = err == nil
	if err != nil {
		e := errors.FromError(err)
		entry.ErrorCode = e.Code
		entry.Error = e.Message
		log.Warn().Object("error", e).Str("operation", op).Dur("elapsed", elapsed).Msg("lab operation failed")
	} else {
		log.Info().Str("operation", op).Dur("elapsed", elapsed).Msg("lab operation completed")
	}

	if jerr := s.journal.Record(context.WithoutCancel(ctx), entry); jerr != nil {
		log.Error().Err(jerr).Str("operation", op).Msg("journal record failed")
	}
}
