package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkpost/inkpost-go/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

const postColumns = `id, user_id, title, slug, content, image, created_at, updated_at`

// PostRepository handles post persistence. A post row is the single source
// for both the owner's list and the public slug lookup, so creation and
// deletion are atomic with respect to the two views.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post and sets the generated ID on the post struct.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (user_id, title, slug, content, image) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		post.UserID, post.Title, post.Slug, post.Content, post.Image,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	post.ID = id
	return nil
}

// GetOwned retrieves a post by ID scoped to its owner. An existing post
// owned by someone else reads as not found, so ownership never leaks.
func (r *PostRepository) GetOwned(ctx context.Context, id, userID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ? AND user_id = ?`

	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&post.ID, &post.UserID, &post.Title, &post.Slug,
		&post.Content, &post.Image, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// GetBySlug retrieves a post by slug for public viewing, including the
// author's display name. No ownership check applies.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := `SELECT p.id, p.user_id, p.title, p.slug, p.content, p.image, p.created_at, p.updated_at, u.name
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.slug = ?`

	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&post.ID, &post.UserID, &post.Title, &post.Slug,
		&post.Content, &post.Image, &post.CreatedAt, &post.UpdatedAt,
		&post.AuthorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// ListByUser retrieves all posts owned by a user in insertion order.
func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Slug,
			&p.Content, &p.Image, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// Update rewrites a post's title, slug, content and image, scoped to the
// owner. Callers resolve ownership with GetOwned first; the scope here is
// a second line of defense against a concurrent owner change.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET title = ?, slug = ?, content = ?, image = ? WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query,
		post.Title, post.Slug, post.Content, post.Image, post.ID, post.UserID,
	)
	return err
}

// Delete removes a post scoped to its owner.
func (r *PostRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrPostNotFound)
}
