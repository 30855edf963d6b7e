package domain

import (
	"context"
	"errors"
)

// Post represents a blog post
// All fields except ID and Date are operator-supplied. Date is stamped once
// when the post is created and never changes afterwards.
type Post struct {
	ID       int64
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
	Date     string
}

// Patch carries the editable fields of a post. ID and Date are deliberately
// absent: neither may change after creation.
type Patch struct {
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
}

var (
	// ErrPostNotFound is returned when no post exists for the requested ID.
	ErrPostNotFound = errors.New("post not found")

	// ErrDuplicateTitle is returned when a create or update would break the
	// title uniqueness constraint.
	ErrDuplicateTitle = errors.New("a post with this title already exists")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("required field is empty")
)

type PostStore interface {
	// Create persists a new post, assigning a fresh ID. The caller must have
	// stamped Date; Create never overwrites it.
	Create(ctx context.Context, p *Post) (*Post, error)

	// Get retrieves a single post by ID.
	Get(ctx context.Context, id int64) (*Post, error)

	// List returns every post in insertion order.
	List(ctx context.Context) ([]*Post, error)

	// Update applies the patch to an existing post, leaving ID and Date
	// untouched. Title uniqueness is re-validated.
	Update(ctx context.Context, id int64, patch Patch) (*Post, error)

	// Delete removes a post permanently.
	Delete(ctx context.Context, id int64) error
}
