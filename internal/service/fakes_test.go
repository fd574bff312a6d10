package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/inkpost/inkpost-go/internal/model"
	"github.com/inkpost/inkpost-go/internal/repository"
)

// In-memory stores used by the service tests in place of MySQL.

type memUsers struct {
	nextID int64
	users  map[int64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[int64]*model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByResetToken(_ context.Context, token string) (*model.User, error) {
	for _, u := range m.users {
		if u.ResetToken.Valid && u.ResetToken.String == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) SetResetToken(_ context.Context, userID int64, token string) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken.String = token
	u.ResetToken.Valid = true
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken.String = ""
	u.ResetToken.Valid = false
	return nil
}

type memSessions struct {
	sessions map[string]*model.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*model.Session)}
}

func (m *memSessions) Create(_ context.Context, s *model.Session) error {
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *memSessions) Get(_ context.Context, token string) (*model.Session, error) {
	s, ok := m.sessions[token]
	if !ok || s.Expired(time.Now().UTC()) {
		return nil, repository.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now().UTC()
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

type memPosts struct {
	nextID int64
	posts  []*model.Post
}

func newMemPosts() *memPosts {
	return &memPosts{}
}

func (m *memPosts) Create(_ context.Context, post *model.Post) error {
	m.nextID++
	post.ID = m.nextID
	post.CreatedAt = time.Now().UTC()
	cp := *post
	m.posts = append(m.posts, &cp)
	return nil
}

func (m *memPosts) GetOwned(_ context.Context, id, userID int64) (*model.Post, error) {
	for _, p := range m.posts {
		if p.ID == id && p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *memPosts) GetBySlug(_ context.Context, slug string) (*model.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			cp := *p
			cp.AuthorName = "author"
			return &cp, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *memPosts) ListByUser(_ context.Context, userID int64) ([]model.Post, error) {
	var out []model.Post
	for _, p := range m.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPosts) Update(_ context.Context, post *model.Post) error {
	for _, p := range m.posts {
		if p.ID == post.ID && p.UserID == post.UserID {
			p.Title = post.Title
			p.Slug = post.Slug
			p.Content = post.Content
			p.Image = post.Image
			return nil
		}
	}
	return nil
}

func (m *memPosts) Delete(_ context.Context, id, userID int64) error {
	for i, p := range m.posts {
		if p.ID == id && p.UserID == userID {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrPostNotFound
}

type memBlobs struct {
	nextID  int
	stored  map[string]bool
	deleted []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{stored: make(map[string]bool)}
}

func (m *memBlobs) Save(src io.Reader, originalName string) (string, error) {
	if _, err := io.Copy(io.Discard, src); err != nil {
		return "", err
	}
	m.nextID++
	name := fmt.Sprintf("blob-%d", m.nextID)
	m.stored[name] = true
	return name, nil
}

func (m *memBlobs) Delete(name string) error {
	delete(m.stored, name)
	m.deleted = append(m.deleted, name)
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}
