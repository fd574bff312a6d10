package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func newTestPostService(posts *memPosts, blobs *memBlobs) *PostService {
	return NewPostService(posts, blobs, slog.Default())
}

func testImage(name string) *ImageUpload {
	return &ImageUpload{File: strings.NewReader("fake image bytes"), Name: name}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello_world"},
		{"New Title", "new_title"},
		{"  Leading and   trailing  ", "leading_and_trailing"},
		{"already_lower", "already_lower"},
		{"Tabs\tand\nnewlines", "tabs_and_newlines"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	cases := []struct {
		name    string
		title   string
		content string
		image   *ImageUpload
		want    error
	}{
		{"missing title", "", "body", testImage("a.png"), ErrTitleRequired},
		{"missing content", "Title", "", testImage("a.png"), ErrContentRequired},
		{"missing image", "Title", "body", nil, ErrImageRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, tc.title, tc.content, tc.image); !errors.Is(err, tc.want) {
				t.Errorf("Create() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreate_DerivesSlug(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())

	post, err := svc.Create(context.Background(), 1, "Hello World", "body", testImage("pic.jpg"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if post.Slug != "hello_world" {
		t.Errorf("Create() slug = %q, want %q", post.Slug, "hello_world")
	}
	if post.ImageURL == "" {
		t.Error("Create() returned empty image URL")
	}
}

func TestList_InsertionOrder(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	p1, err := svc.Create(ctx, 1, "First Post", "body", testImage("a.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	p2, err := svc.Create(ctx, 1, "Second Post", "body", testImage("b.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	got := make([]int64, 0, len(list))
	for _, p := range list {
		got = append(got, p.ID)
	}
	if !slices.Equal(got, []int64{p1.ID, p2.ID}) {
		t.Fatalf("List() order = %v, want [%d %d]", got, p1.ID, p2.ID)
	}

	if err := svc.Delete(ctx, p1.ID, 1); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	list, err = svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != p2.ID {
		t.Errorf("List() after delete = %v, want only post %d", list, p2.ID)
	}
}

func TestList_ScopedToOwner(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "Mine", "body", testImage("a.png")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, 2, "Theirs", "body", testImage("b.png")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Mine" {
		t.Errorf("List() = %v, want only the caller's post", list)
	}
}

func TestGetBySlug_Public(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "Hello World", "body", testImage("a.png")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	post, err := svc.GetBySlug(ctx, "hello_world")
	if err != nil {
		t.Fatalf("GetBySlug() unexpected error: %v", err)
	}
	if post.Title != "Hello World" {
		t.Errorf("GetBySlug() title = %q, want %q", post.Title, "Hello World")
	}
	if post.Author == "" {
		t.Error("GetBySlug() returned empty author")
	}

	if _, err := svc.GetBySlug(ctx, "no_such_slug"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("GetBySlug() error = %v, want ErrPostNotFound", err)
	}
}

func TestUpdate_RederivesSlug(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Hello World", "body", testImage("a.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, 1, "New Title", "new body", nil)
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Slug != "new_title" {
		t.Errorf("Update() slug = %q, want %q", updated.Slug, "new_title")
	}

	if _, err := svc.GetBySlug(ctx, "hello_world"); !errors.Is(err, ErrPostNotFound) {
		t.Error("old slug still resolves after title change")
	}
	if _, err := svc.GetBySlug(ctx, "new_title"); err != nil {
		t.Errorf("new slug does not resolve: %v", err)
	}
}

func TestUpdate_ReplacesImage(t *testing.T) {
	blobs := newMemBlobs()
	svc := newTestPostService(newMemPosts(), blobs)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Hello World", "body", testImage("a.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, 1, "Hello World", "body", testImage("b.png")); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	if len(blobs.deleted) != 1 || blobs.deleted[0] != "blob-1" {
		t.Errorf("Update() deleted blobs = %v, want the original image", blobs.deleted)
	}
	if len(blobs.stored) != 1 {
		t.Errorf("Update() stored blobs = %d, want 1", len(blobs.stored))
	}
}

func TestUpdate_OwnerMismatchReadsAsNotFound(t *testing.T) {
	svc := newTestPostService(newMemPosts(), newMemBlobs())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Hello World", "body", testImage("a.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, 2, "Stolen", "body", nil); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Update() error = %v, want ErrPostNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID, 2); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Delete() error = %v, want ErrPostNotFound", err)
	}
}

func TestDelete_RemovesPostAndImage(t *testing.T) {
	blobs := newMemBlobs()
	svc := newTestPostService(newMemPosts(), blobs)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Hello World", "body", testImage("a.png"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, 1); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	// Slug lookup and owner list reflect the deletion together.
	if _, err := svc.GetBySlug(ctx, "hello_world"); !errors.Is(err, ErrPostNotFound) {
		t.Error("deleted post still resolves by slug")
	}
	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() after delete = %v, want empty", list)
	}
	if len(blobs.stored) != 0 {
		t.Error("Delete() left the stored image behind")
	}
}
