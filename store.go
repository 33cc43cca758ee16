package blogfront

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoThumbnail is returned when no thumbnail is stored for a source and width.
var ErrNoThumbnail = errors.New("thumbnail not found")

// Thumbnail is a resized JPEG of a remote post or author image.
type Thumbnail struct {
	Source    string
	Width     int
	Height    int
	Data      []byte
	CreatedAt time.Time
}

// ImageStore wraps a SQLite database holding resized images so the
// optimiser fetches each source once per width.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func NewImageStore(path string) (*ImageStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open image db: %w", err)
	}
	// WAL lets handlers read while the optimiser writes; busy_timeout makes
	// concurrent writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &ImageStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *ImageStore) Close() error {
	return s.db.Close()
}

func (s *ImageStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS thumbnails (
    source TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    data BLOB NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (source, width)
);
CREATE INDEX IF NOT EXISTS idx_thumbnails_created_at ON thumbnails(created_at);
`)
	return err
}

// Get returns the stored thumbnail for source at width, or ErrNoThumbnail.
func (s *ImageStore) Get(ctx context.Context, source string, width int) (Thumbnail, error) {
	t := Thumbnail{Source: source, Width: width}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT height, data, created_at FROM thumbnails WHERE source = ? AND width = ?`,
		source, width).Scan(&t.Height, &t.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Thumbnail{}, ErrNoThumbnail
	}
	if err != nil {
		return Thumbnail{}, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return t, nil
}

// Save upserts a thumbnail. A zero CreatedAt is stamped with the current time.
func (s *ImageStore) Save(ctx context.Context, t Thumbnail) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO thumbnails (source, width, height, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.Source, t.Width, t.Height, t.Data, t.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// Count returns the number of stored thumbnails.
func (s *ImageStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM thumbnails`).Scan(&n)
	return n, err
}

// Prune deletes thumbnails created before now minus maxAge and returns how
// many were removed.
func (s *ImageStore) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM thumbnails WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune thumbnails: %w", err)
	}
	return res.RowsAffected()
}

// StartPruneScheduler runs Prune every interval. Returns a stop function.
func (s *ImageStore) StartPruneScheduler(maxAge, interval time.Duration, logf func(format string, args ...any)) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.Prune(context.Background(), maxAge); err != nil && logf != nil {
					logf("thumbnail prune: %v", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
