package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"engagement/internal/core"
	"engagement/internal/dataset"
	applog "engagement/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

var _ dataset.Source = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens dbPath, creating the file and its directory when
// missing, and migrates it. The importer uses it to build a fresh store.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		path:    dbPath,
		queries: New(db),
	}, nil
}

// OpenSQLiteRepository opens an existing database for reading. A missing file
// is reported as a LoadError wrapping core.ErrSourceMissing instead of being
// created empty.
func OpenSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &core.LoadError{Source: dbPath, Err: fmt.Errorf("%w: no sqlite database at %s", core.ErrSourceMissing, dbPath)}
		}
		return nil, &core.LoadError{Source: dbPath, Err: fmt.Errorf("%w: %v", core.ErrSourceMissing, err)}
	}
	if info.IsDir() {
		return nil, &core.LoadError{Source: dbPath, Err: fmt.Errorf("%w: %s is a directory", core.ErrSourceMissing, dbPath)}
	}
	return NewSQLiteRepository(dbPath)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Name implements dataset.Source
func (r *SQLiteRepository) Name() string {
	return "sqlite:" + r.path
}

// ReadPosts implements dataset.Source
func (r *SQLiteRepository) ReadPosts(ctx context.Context) ([]core.Post, error) {
	rows, err := r.queries.ListPosts(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: r.path, Err: fmt.Errorf("%w: list posts: %v", core.ErrMalformed, err)}
	}

	posts := make([]core.Post, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339Nano, row.PostTime)
		if err != nil {
			return nil, &core.LoadError{Source: r.path, Row: i + 1, Column: dataset.ColPostTime,
				Err: fmt.Errorf("%w: %q", core.ErrInvalidValue, row.PostTime)}
		}
		posts = append(posts, core.Post{
			Platform:  row.Platform,
			PostType:  row.PostType,
			Sentiment: row.SentimentScore,
			PostTime:  ts,
			Likes:     row.Likes,
			Comments:  row.Comments,
			Shares:    row.Shares,
		})
	}
	return posts, nil
}

// ReplacePosts swaps the stored table for posts in one transaction and
// records the import. It returns the number of rows written.
func (r *SQLiteRepository) ReplacePosts(ctx context.Context, source string, posts []core.Post) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllPosts(ctx); err != nil {
		return 0, fmt.Errorf("delete posts: %w", err)
	}
	for i, p := range posts {
		if err := q.InsertPost(ctx, InsertPostParams{
			Platform:       p.Platform,
			PostType:       p.PostType,
			SentimentScore: p.Sentiment,
			PostTime:       p.PostTime.UTC().Format(time.RFC3339Nano),
			Likes:          p.Likes,
			Comments:       p.Comments,
			Shares:         p.Shares,
		}); err != nil {
			return 0, fmt.Errorf("insert post %d: %w", i+1, err)
		}
	}
	if err := q.InsertImport(ctx, InsertImportParams{
		Source:     source,
		Rows:       int64(len(posts)),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return 0, fmt.Errorf("record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Posts replaced in SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldSource, source,
		applog.FieldRows, len(posts),
		"db_path", r.path)
	return len(posts), nil
}

// CountPosts returns the number of stored posts.
func (r *SQLiteRepository) CountPosts(ctx context.Context) (int64, error) {
	n, err := r.queries.CountPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
