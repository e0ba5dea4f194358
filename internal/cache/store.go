package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// evictFraction is the share of entries removed when the size cap is
// exceeded. Evicting a fifth at a time amortizes the cost of the DELETE:
// evicting one row per insert would run a cleanup on nearly every write
// once the cache is full.
const evictFraction = 0.2

// Store is a persistent TTL cache backed by SQLite.
//
// Design decision: We use SQLite rather than one file per entry because:
//  1. TTL sweeps and size-cap eviction become single SQL statements
//  2. WAL mode gives safe concurrent access across processes
//  3. UPSERT provides atomic last-writer-wins replacement
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// ttl is the default freshness window for new entries.
	ttl time.Duration

	// now returns the current time; replaceable in tests.
	now func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// TTL is the default freshness window for entries written with Put.
	// Zero means entries never expire.
	TTL time.Duration

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default cache options: a 90 minute TTL
// and WAL mode enabled.
func DefaultOptions() Options {
	return Options{
		TTL:       90 * time.Minute,
		EnableWAL: true,
	}
}

// Open opens or creates a cache store in the given directory.
// The directory is created if it does not exist.
func Open(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "webscout.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY errors under concurrent workers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
		ttl:    opts.TTL,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the cache schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Cache entries store opaque payloads with per-entry expiry.
	-- created_at and expires_at are unix timestamps in seconds.
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		expires_at INTEGER,
		payload BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
	CREATE INDEX IF NOT EXISTS idx_entries_expires ON entries(expires_at);

	-- Search usage counters, one row per calendar day.
	-- first_at and last_at are unix timestamps in seconds.
	CREATE TABLE IF NOT EXISTS search_stats (
		day TEXT PRIMARY KEY,
		searches INTEGER NOT NULL,
		first_at INTEGER NOT NULL,
		last_at INTEGER NOT NULL
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Key builds a deterministic cache key from the given request parts.
// The key is the hex SHA3-256 of the parts joined with a separator that
// cannot appear in URLs or query text, so distinct requests never collide
// by concatenation.
func Key(parts ...string) string {
	h := sha3.New256()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves the payload stored under key.
// It returns (nil, false, nil) when the key is absent or expired.
// Expired rows are deleted on read so the table does not accumulate
// dead entries between maintenance sweeps.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	var expiresAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM entries WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if expiresAt.Valid && s.now().Unix() >= expiresAt.Int64 {
		if err := s.Delete(ctx, key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return payload, true, nil
}

// Put stores payload under key with the store's default TTL.
// An existing entry under the same key is atomically replaced and its
// clock restarts (last-writer-wins).
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	return s.PutTTL(ctx, key, payload, s.ttl)
}

// PutTTL stores payload under key with an explicit TTL.
// A zero TTL stores the entry without expiry.
func (s *Store) PutTTL(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := s.now().Unix()

	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now + int64(ttl.Seconds()), Valid: true}
	}

	query := `
	INSERT INTO entries (key, created_at, expires_at, payload)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		created_at = excluded.created_at,
		expires_at = excluded.expires_at,
		payload = excluded.payload
	`

	if _, err := s.db.ExecContext(ctx, query, key, now, expiresAt, payload); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry stored under key. Deleting an absent key is
// not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// GetJSON retrieves and unmarshals the entry stored under key into v.
// A payload that fails to unmarshal is treated as corruption: the entry
// is deleted and the call reports a miss. Decode errors never escape to
// the caller because the cache is an optimization, not a source of truth.
func (s *Store) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	payload, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal(payload, v); err != nil {
		// Self-heal: drop the corrupt row and report a miss
		if delErr := s.Delete(ctx, key); delErr != nil {
			return false, delErr
		}
		return false, nil
	}

	return true, nil
}

// PutJSON marshals v and stores it under key with the default TTL.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	return s.Put(ctx, key, payload)
}

// Len returns the current number of entries, including expired ones not
// yet swept.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// SweepExpired deletes all expired entries in one pass and returns the
// number removed.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE expires_at IS NOT NULL AND expires_at <= ?", s.now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired entries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// EnforceSizeCap evicts the oldest entries when the store holds more than
// maxEntries. It removes 20% of the current count in a single statement
// and returns the number evicted. Newer entries are always preserved.
func (s *Store) EnforceSizeCap(ctx context.Context, maxEntries int) (int, error) {
	count, err := s.Len(ctx)
	if err != nil {
		return 0, err
	}
	if maxEntries <= 0 || count <= maxEntries {
		return 0, nil
	}

	evict := int(float64(count) * evictFraction)
	if evict < 1 {
		evict = 1
	}

	query := `
	DELETE FROM entries WHERE key IN (
		SELECT key FROM entries ORDER BY created_at ASC LIMIT ?
	)
	`

	res, err := s.db.ExecContext(ctx, query, evict)
	if err != nil {
		return 0, fmt.Errorf("failed to enforce cache size cap: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
