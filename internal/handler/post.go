package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inkpost/inkpost-go/internal/middleware"
	"github.com/inkpost/inkpost-go/internal/service"
)

const maxUploadBody = 10 << 20 // 10MB

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// HandleList handles GET /api/v1/posts requests, returning the caller's
// posts in creation order.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	posts, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet handles GET /api/v1/posts/{post_id} requests.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("post not found"))
		return
	}

	post, err := h.service.Get(r.Context(), postID, userID)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleViewBySlug handles GET /api/v1/p/{slug} requests. This is the one
// public post read; no authentication applies.
func (h *PostHandler) HandleViewBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate handles POST /api/v1/posts multipart requests with fields
// title, content and image.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	image, ok := parsePostForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.close()
	}

	post, err := h.service.Create(r.Context(), userID, r.FormValue("title"), r.FormValue("content"), image.upload())
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate handles PUT /api/v1/posts/{post_id} multipart requests.
// The image field is optional; when present it replaces the stored image.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("post not found"))
		return
	}

	image, ok := parsePostForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.close()
	}

	post, err := h.service.Update(r.Context(), postID, userID, r.FormValue("title"), r.FormValue("content"), image.upload())
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete handles DELETE /api/v1/posts/{post_id} requests.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("post not found"))
		return
	}

	if err := h.service.Delete(r.Context(), postID, userID); err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("post deleted"))
}

// formImage pairs an uploaded file with its client filename so the caller
// can close it after the service has consumed it.
type formImage struct {
	file multipart.File
	name string
}

func (f *formImage) upload() *service.ImageUpload {
	if f == nil {
		return nil
	}
	return &service.ImageUpload{File: f.file, Name: f.name}
}

func (f *formImage) close() {
	f.file.Close()
}

// parsePostForm parses a size-capped multipart form and extracts the
// optional image field. It writes the error response itself on failure.
func parsePostForm(w http.ResponseWriter, r *http.Request) (*formImage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid image upload"))
		return nil, false
	}

	return &formImage{file: file, name: header.Filename}, true
}

func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "post_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrImageRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
