package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// PostRow mirrors one row of the posts table.
type PostRow struct {
	ID             int64
	Platform       string
	PostType       string
	SentimentScore string
	PostTime       string
	Likes          int64
	Comments       int64
	Shares         int64
}

type InsertPostParams struct {
	Platform       string
	PostType       string
	SentimentScore string
	PostTime       string
	Likes          int64
	Comments       int64
	Shares         int64
}

const insertPost = `INSERT INTO posts (platform, post_type, sentiment_score, post_time, likes, comments, shares)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertPost(ctx context.Context, arg InsertPostParams) error {
	_, err := q.db.ExecContext(ctx, insertPost,
		arg.Platform, arg.PostType, arg.SentimentScore, arg.PostTime,
		arg.Likes, arg.Comments, arg.Shares)
	return err
}

const deleteAllPosts = `DELETE FROM posts`

func (q *Queries) DeleteAllPosts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPosts)
	return err
}

const listPosts = `SELECT id, platform, post_type, sentiment_score, post_time, likes, comments, shares
FROM posts ORDER BY id`

func (q *Queries) ListPosts(ctx context.Context) ([]PostRow, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PostRow
	for rows.Next() {
		var i PostRow
		if err := rows.Scan(&i.ID, &i.Platform, &i.PostType, &i.SentimentScore, &i.PostTime,
			&i.Likes, &i.Comments, &i.Shares); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countPosts = `SELECT COUNT(*) FROM posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&n)
	return n, err
}

type InsertImportParams struct {
	Source     string
	Rows       int64
	ImportedAt string
}

const insertImport = `INSERT INTO imports (source, rows, imported_at) VALUES (?, ?, ?)`

func (q *Queries) InsertImport(ctx context.Context, arg InsertImportParams) error {
	_, err := q.db.ExecContext(ctx, insertImport, arg.Source, arg.Rows, arg.ImportedAt)
	return err
}
