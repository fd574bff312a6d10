package service

import (
	"context"
	"io"

	"github.com/inkpost/inkpost-go/internal/model"
)

// UserStore is the account persistence contract consumed by services.
// *repository.UserRepository is the production implementation.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	SetResetToken(ctx context.Context, userID int64, token string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// SessionStore persists login sessions keyed by opaque token.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetOwned(ctx context.Context, id, userID int64) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id, userID int64) error
}

// BlobStore stores uploaded images by generated name.
type BlobStore interface {
	Save(src io.Reader, originalName string) (string, error)
	Delete(name string) error
}

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
