package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder    Responder
	logger       zerolog.Logger
	tagRepo      *database.TagRepo
	maxBodyBytes int64
}

func newTagHandler(tagRepo *database.TagRepo, maxBodyBytes int64) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		tagRepo:      tagRepo,
		maxBodyBytes: maxBodyBytes,
	}
}

// decodeTagName reads {"name": ...} and returns the trimmed, validated name
func (h tagHandler) decodeTagName(w http.ResponseWriter, r *http.Request) (string, error) {
	var req tagRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		return "", err
	}
	if req.Name == nil {
		return "", errs.NewMissingRequiredFieldError("name")
	}
	return validation.TagName(*req.Name)
}

// createTag handles POST /tags
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := h.decodeTagName(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.Create(r.Context(), name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("tag_id", tag.ID).Str("name", tag.Name).Msg("Created tag")
		h.responder.WriteJSON(w, tag)
	}
}

// listTags handles GET /tags; include_post_count=true adds post_count to every entry
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeCount := false
		if raw := r.URL.Query().Get("include_post_count"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidQueryParamError("include_post_count", "must be true or false"))
				return
			}
			includeCount = parsed
		}

		if includeCount {
			tags, err := h.tagRepo.ListWithPostCount(r.Context())
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, tags)
			return
		}

		tags, err := h.tagRepo.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// getTag handles GET /tags/{id}
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// getTagByName handles GET /tags/by-name/{name}
func (h tagHandler) getTagByName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}

		tag, err := h.tagRepo.FindByName(r.Context(), strings.TrimSpace(name))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// updateTag handles PUT /tags/{id}
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, err := h.decodeTagName(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.Update(r.Context(), id, name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag handles DELETE /tags/{id}
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int64("tag_id", id).Msg("Deleted tag")
		h.responder.WriteNoContent(w)
	}
}

// listPostTags handles GET /posts/{id}/tags
func (h tagHandler) listPostTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, err := h.tagRepo.ListForPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// addTagToPost handles PUT /posts/{id}/tags/{tagID}
func (h tagHandler) addTagToPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, tagID, err := postAndTagIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.AddToPost(r.Context(), postID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteNoContent(w)
	}
}

// removeTagFromPost handles DELETE /posts/{id}/tags/{tagID}
func (h tagHandler) removeTagFromPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, tagID, err := postAndTagIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.RemoveFromPost(r.Context(), postID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteNoContent(w)
	}
}

func postAndTagIDs(r *http.Request) (int64, int64, error) {
	postID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	tagID, err := pathID(r, "tagID")
	if err != nil {
		return 0, 0, err
	}
	return postID, tagID, nil
}
