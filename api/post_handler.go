package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/render"
	"github.com/rpupo63/personal-blog-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder    Responder
	logger       zerolog.Logger
	postRepo     *database.PostRepo
	maxBodyBytes int64
}

func newPostHandler(postRepo *database.PostRepo, maxBodyBytes int64) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		postRepo:     postRepo,
		maxBodyBytes: maxBodyBytes,
	}
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidPathParamError(name, raw)
	}
	return id, nil
}

// parsePostFilter reads category, published_only, limit and offset from the query string
func parsePostFilter(r *http.Request) (models.PostFilter, error) {
	query := r.URL.Query()
	filter := models.PostFilter{Limit: models.DefaultPostLimit}

	if raw := query.Get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return models.PostFilter{}, errs.NewInvalidQueryParamError("category", "must be one of blog, art, reading")
		}
		filter.Category = &category
	}

	if raw := query.Get("published_only"); raw != "" {
		publishedOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return models.PostFilter{}, errs.NewInvalidQueryParamError("published_only", "must be true or false")
		}
		filter.PublishedOnly = publishedOnly
	}

	if query.Has("limit") {
		limit, err := strconv.Atoi(strings.TrimSpace(query.Get("limit")))
		if err != nil {
			return models.PostFilter{}, errs.NewInvalidQueryParamError("limit", "must be an integer")
		}
		filter.Limit = limit
	}

	if query.Has("offset") {
		offset, err := strconv.Atoi(strings.TrimSpace(query.Get("offset")))
		if err != nil {
			return models.PostFilter{}, errs.NewInvalidQueryParamError("offset", "must be an integer")
		}
		filter.Offset = offset
	}

	if err := validation.PostFilter(filter); err != nil {
		return models.PostFilter{}, err
	}
	return filter, nil
}

// createPost handles POST /posts
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields, err := req.fields()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.PostFields(fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.Create(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Msg("Created post")
		h.responder.WriteJSON(w, post)
	}
}

// listPosts handles GET /posts
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parsePostFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, err := h.postRepo.List(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getPostByID handles GET /posts/by-id/{id}
func (h postHandler) getPostByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// getPostBySlug handles GET /posts/by-slug/{slug}
func (h postHandler) getPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.postRepo.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// getPostHTML handles GET /posts/by-slug/{slug}/html
func (h postHandler) getPostHTML() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.postRepo.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		html, err := render.Markdown(post.Content)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render post", err))
			return
		}

		h.responder.WriteHTML(w, html)
	}
}

// replacePost handles PUT /posts; the id travels in the body
func (h postHandler) replacePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := req.id()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.ID("id", id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fields, err := req.fields()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.PostFields(fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.Replace(r.Context(), id, fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// patchPost handles PATCH /posts; only the fields present in the body are written
func (h postHandler) patchPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch, err := req.patch()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.PostPatch(patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.Patch(r.Context(), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost handles DELETE /posts/{id}
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.postRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("post_id", id).Msg("Deleted post")
		h.responder.WriteNoContent(w)
	}
}
