package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/rsalab/store/db"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	client, err := db.New(context.Background(), &db.SQLiteConfig{FilePath: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s, err := NewStore(client.DB())
	require.NoError(t, err)
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Minute)

	for i, kind := range []Kind{KindGeneratePrimes, KindGenerateKeys, KindEncrypt} {
		e := &Entry{
			SessionID: "s1",
			Kind:      kind,
			Success:   true,
			Elapsed:   time.Duration(i+1) * time.Millisecond,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.Record(ctx, e))
		assert.NotEqual(t, uuid.Nil, e.ID)
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KindEncrypt, entries[0].Kind)
	assert.Equal(t, KindGenerateKeys, entries[1].Kind)
	assert.Equal(t, 3*time.Millisecond, entries[0].Elapsed)

	entries, err = s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecordFailure(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &Entry{Kind: KindDecrypt, ErrorCode: 400, Error: "decoded bytes are not valid UTF-8"}))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, 400, entries[0].ErrorCode)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(5000))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), &Entry{}))
	entries, err := r.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
