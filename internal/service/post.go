package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/inkpost/inkpost-go/internal/model"
	"github.com/inkpost/inkpost-go/internal/repository"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrImageRequired   = errors.New("image is required")
	ErrPostNotFound    = errors.New("post not found")
)

// ImageUpload is an uploaded image body with its client-supplied filename.
type ImageUpload struct {
	File io.Reader
	Name string
}

// PostService handles post business logic. Mutating operations take the
// requester's user ID and treat posts owned by anyone else as not found.
type PostService struct {
	posts  PostStore
	blobs  BlobStore
	logger *slog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore, blobs BlobStore, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, blobs: blobs, logger: logger}
}

// List returns the requester's posts in creation order.
func (s *PostService) List(ctx context.Context, userID int64) ([]model.PostResponse, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]model.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, postResponse(&posts[i]))
	}
	return out, nil
}

// Get returns one of the requester's posts.
func (s *PostService) Get(ctx context.Context, postID, userID int64) (model.PostResponse, error) {
	post, err := s.posts.GetOwned(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}
	return postResponse(post), nil
}

// GetBySlug returns a post for public viewing. Any visitor may read it.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (model.PublicPostResponse, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PublicPostResponse{}, ErrPostNotFound
		}
		return model.PublicPostResponse{}, err
	}

	return model.PublicPostResponse{
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		ImageURL:  imageURL(post.Image),
		Author:    post.AuthorName,
		CreatedAt: post.CreatedAt,
	}, nil
}

// Create stores the image and inserts a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID int64, title, content string, image *ImageUpload) (model.PostResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.PostResponse{}, ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return model.PostResponse{}, ErrContentRequired
	}
	if image == nil {
		return model.PostResponse{}, ErrImageRequired
	}

	filename, err := s.blobs.Save(image.File, image.Name)
	if err != nil {
		return model.PostResponse{}, err
	}

	post := &model.Post{
		UserID:  userID,
		Title:   title,
		Slug:    Slugify(title),
		Content: content,
		Image:   filename,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		// The insert failed, so the blob is an orphan.
		if delErr := s.blobs.Delete(filename); delErr != nil {
			s.logger.Error("orphan image cleanup failed", "image", filename, "error", delErr)
		}
		return model.PostResponse{}, err
	}

	return postResponse(post), nil
}

// Update rewrites a post's title and content, re-deriving the slug even
// when the title is unchanged. A new image replaces the stored one; the
// old blob is deleted best-effort after the row is updated.
func (s *PostService) Update(ctx context.Context, postID, userID int64, title, content string, image *ImageUpload) (model.PostResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.PostResponse{}, ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return model.PostResponse{}, ErrContentRequired
	}

	post, err := s.posts.GetOwned(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}

	oldImage := ""
	if image != nil {
		filename, err := s.blobs.Save(image.File, image.Name)
		if err != nil {
			return model.PostResponse{}, err
		}
		oldImage = post.Image
		post.Image = filename
	}

	post.Title = title
	post.Slug = Slugify(title)
	post.Content = content

	if err := s.posts.Update(ctx, post); err != nil {
		return model.PostResponse{}, err
	}

	if oldImage != "" {
		if err := s.blobs.Delete(oldImage); err != nil {
			s.logger.Error("replaced image cleanup failed", "image", oldImage, "error", err)
		}
	}

	return postResponse(post), nil
}

// Delete removes a post and its stored image. The image deletion is
// best-effort: a blob-store failure is logged and never fails the request.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	post, err := s.posts.GetOwned(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if err := s.posts.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if err := s.blobs.Delete(post.Image); err != nil {
		s.logger.Error("deleted post image cleanup failed", "image", post.Image, "error", err)
	}

	return nil
}

// Slugify derives a URL-safe slug from a title: whitespace runs collapse
// to a single underscore and letters are lowercased.
func Slugify(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), "_"))
}

func postResponse(post *model.Post) model.PostResponse {
	return model.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		ImageURL:  imageURL(post.Image),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func imageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + filename
}
