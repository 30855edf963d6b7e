package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mwhitt/bloglite/blog/domain"
)

var _ domain.PostStore = (*PostgresPostStore)(nil)

// PostgresPostStore implements domain.PostStore against Postgres. The
// semantics match SQLitePostStore; only placeholders, the id-returning
// insert, and the constraint error mapping differ.
type PostgresPostStore struct {
	db *sql.DB
}

func NewPostgresPostStore(db *sql.DB) *PostgresPostStore {
	return &PostgresPostStore{
		db: db,
	}
}

const pgInsertPostQuery = `
	INSERT INTO posts (title, subtitle, author, img_url, body, date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
`

func (s *PostgresPostStore) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	if err := validatePost(p); err != nil {
		return nil, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, pgInsertPostQuery,
		p.Title,
		p.Subtitle,
		p.Author,
		p.ImgURL,
		p.Body,
		p.Date,
	).Scan(&id)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return s.Get(ctx, id)
}

const pgGetPostQuery = `
	SELECT id, title, subtitle, author, img_url, body, date
	FROM posts
	WHERE id = $1
`

func (s *PostgresPostStore) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, pgGetPostQuery, id))
}

const pgListPostsQuery = `
	SELECT id, title, subtitle, author, img_url, body, date
	FROM posts
	ORDER BY id
`

func (s *PostgresPostStore) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, pgListPostsQuery)
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

const pgUpdatePostQuery = `
	UPDATE posts
	SET title = $1, subtitle = $2, author = $3, img_url = $4, body = $5
	WHERE id = $6
`

func (s *PostgresPostStore) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Post, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, pgUpdatePostQuery,
		patch.Title,
		patch.Subtitle,
		patch.Author,
		patch.ImgURL,
		patch.Body,
		id,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrPostNotFound
	}

	return s.Get(ctx, id)
}

const pgDeletePostQuery = `
	DELETE FROM posts WHERE id = $1
`

func (s *PostgresPostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, pgDeletePostQuery, id)
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

// isPgUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isPgUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
