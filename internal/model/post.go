package model

import "time"

// Post represents a blog post in the database. Each post is owned by
// exactly one user; AuthorName is populated on public reads only.
type Post struct {
	ID         int64
	UserID     int64
	Title      string
	Slug       string
	Content    string
	Image      string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PostResponse represents a post as seen by its owner.
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicPostResponse represents a post on its public slug URL.
type PublicPostResponse struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
