// Package journal keeps a log of lab operations. Entries describe what ran and
// how it went; they never hold key material or message text.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kochabx/rsalab/errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

var ErrStore = errors.Internal("journal: store failed")

// Kind names a lab operation.
type Kind string

const (
	KindGeneratePrimes Kind = "generate_primes"
	KindGenerateKeys   Kind = "generate_keys"
	KindValidateKeys   Kind = "validate_keys"
	KindEncrypt        Kind = "encrypt"
	KindDecrypt        Kind = "decrypt"
)

// Entry is one journaled operation.
type Entry struct {
	ID        uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	SessionID string        `gorm:"size:36;index" json:"session_id"`
	Kind      Kind          `gorm:"size:32;index" json:"kind"`
	BitLength int           `json:"bit_length,omitempty"`
	Rounds    int           `json:"rounds,omitempty"`
	Blocks    int           `json:"blocks,omitempty"`
	Length    int           `json:"length,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
	Success   bool          `json:"success"`
	ErrorCode int           `json:"error_code,omitempty"`
	Error     string        `gorm:"size:255" json:"error,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
}

func (Entry) TableName() string {
	return "journal_entries"
}

// Recorder stores and lists entries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Store is a Recorder backed by gorm.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the entry table and returns a store over db.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, ErrStore.WithCause(err)
	}
	return &Store{db: db}, nil
}

// Record fills in ID and CreatedAt when unset and inserts e.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return ErrStore.WithCause(err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. The limit is clamped to
// [1, MaxLimit]; zero or negative selects DefaultLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(ClampLimit(limit)).
		Find(&entries).Error
	if err != nil {
		return nil, ErrStore.WithCause(err)
	}
	return entries, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Nop discards entries. It is used when the journal is disabled.
type Nop struct{}

func (Nop) Record(context.Context, *Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }
