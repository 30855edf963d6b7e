package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mwhitt/bloglite/blog/domain"
	"github.com/mwhitt/bloglite/shared/db"
	sqlite3 "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var _ domain.PostStore = (*SQLitePostStore)(nil)

// SQLitePostStore implements domain.PostStore on top of a SQLite database.
// Title uniqueness is enforced by the UNIQUE index on posts.title; the driver
// error is translated to domain.ErrDuplicateTitle.
type SQLitePostStore struct {
	db *sql.DB
}

// NewSQLitePostStore creates a new SQLitePostStore from a standard sql.DB
func NewSQLitePostStore(db *sql.DB) *SQLitePostStore {
	return &SQLitePostStore{
		db: db,
	}
}

const insertPostQuery = `
	INSERT INTO posts (title, subtitle, author, img_url, body, date)
	VALUES (?, ?, ?, ?, ?, ?)
`

// Create persists a new post and returns it with the assigned ID. The insert
// and the read-back of the stored row run in one transaction so the returned
// post is exactly what was committed.
func (s *SQLitePostStore) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	if err := validatePost(p); err != nil {
		return nil, err
	}

	var created *domain.Post
	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, s.db)
		res, err := executor.ExecContext(txCtx, insertPostQuery,
			p.Title,
			p.Subtitle,
			p.Author,
			p.ImgURL,
			p.Body,
			p.Date,
		)
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				return domain.ErrDuplicateTitle
			}
			return fmt.Errorf("failed to insert post: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get new post id: %w", err)
		}

		created, err = scanPost(executor.QueryRowContext(txCtx, getPostQuery, id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

const getPostQuery = `
	SELECT id, title, subtitle, author, img_url, body, date
	FROM posts
	WHERE id = ?
`

// Get retrieves a single post by ID
func (s *SQLitePostStore) Get(ctx context.Context, id int64) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, s.db)
	return scanPost(executor.QueryRowContext(ctx, getPostQuery, id))
}

const listPostsQuery = `
	SELECT id, title, subtitle, author, img_url, body, date
	FROM posts
	ORDER BY id
`

// List retrieves every post in insertion order
func (s *SQLitePostStore) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Author, &p.ImgURL, &p.Body, &p.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

const updatePostQuery = `
	UPDATE posts
	SET title = ?, subtitle = ?, author = ?, img_url = ?, body = ?
	WHERE id = ?
`

// Update applies the patch to an existing post. The date column is not part
// of the statement, so it can never change here.
func (s *SQLitePostStore) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Post, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var updated *domain.Post
	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, s.db)
		res, err := executor.ExecContext(txCtx, updatePostQuery,
			patch.Title,
			patch.Subtitle,
			patch.Author,
			patch.ImgURL,
			patch.Body,
			id,
		)
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				return domain.ErrDuplicateTitle
			}
			return fmt.Errorf("failed to update post: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return domain.ErrPostNotFound
		}

		updated, err = scanPost(executor.QueryRowContext(txCtx, getPostQuery, id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

const deletePostQuery = `
	DELETE FROM posts WHERE id = ?
`

// Delete removes a post permanently
func (s *SQLitePostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// scanPost reads a single post row, translating sql.ErrNoRows
func scanPost(row *sql.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Author, &p.ImgURL, &p.Body, &p.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	return errors.As(err, &serr) && serr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}
