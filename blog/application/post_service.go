package application

import (
	"context"
	"time"

	"github.com/mwhitt/bloglite/blog/domain"
)

// dateLayout matches the long-form date the blog has always shown,
// e.g. "March 07, 2026".
const dateLayout = "January 02, 2006"

// PostFields carries the validated operator input for a create or edit.
type PostFields struct {
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
}

// PostService orchestrates the CRUD flows on top of the store. It owns the
// one derived field, the creation date, which is stamped here and never
// recomputed on edit.
type PostService struct {
	store domain.PostStore
	now   func() time.Time
}

func NewPostService(store domain.PostStore) *PostService {
	return &PostService{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the clock used to stamp creation dates. Used by tests.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// ListPosts returns every post in insertion order.
func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.store.List(ctx)
}

// GetPost retrieves a single post.
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.store.Get(ctx, id)
}

// CreatePost stamps the creation date and persists a new post.
func (s *PostService) CreatePost(ctx context.Context, fields PostFields) (*domain.Post, error) {
	post := &domain.Post{
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Author:   fields.Author,
		ImgURL:   fields.ImgURL,
		Body:     fields.Body,
		Date:     s.now().Format(dateLayout),
	}

	return s.store.Create(ctx, post)
}

// EditPost updates an existing post in place. The patch excludes the date,
// so an edited post keeps its original creation date.
func (s *PostService) EditPost(ctx context.Context, id int64, fields PostFields) (*domain.Post, error) {
	patch := domain.Patch{
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Author:   fields.Author,
		ImgURL:   fields.ImgURL,
		Body:     fields.Body,
	}

	return s.store.Update(ctx, id, patch)
}

// DeletePost removes a post permanently.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
