package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers every endpoint. Posts are addressed as /posts/by-id/{id} and
// /posts/by-slug/{slug}; PUT and PATCH /posts carry the id in the body.
func setupRoutes(r chi.Router, handlers *routeHandlers, metrics *httpMetrics) {
	r.Get("/health", handlers.healthHandler.health())
	r.Method("GET", "/metrics", metrics.handler())

	// Post Handler endpoints
	r.Route("/posts", func(r chi.Router) {
		r.Post("/", handlers.postHandler.createPost())
		r.Get("/", handlers.postHandler.listPosts())
		r.Put("/", handlers.postHandler.replacePost())
		r.Patch("/", handlers.postHandler.patchPost())

		r.Get("/by-id/{id}", handlers.postHandler.getPostByID())
		r.Get("/by-slug/{slug}", handlers.postHandler.getPostBySlug())
		r.Get("/by-slug/{slug}/html", handlers.postHandler.getPostHTML())

		r.Delete("/{id}", handlers.postHandler.deletePost())

		// Post/tag associations
		r.Get("/{id}/tags", handlers.tagHandler.listPostTags())
		r.Put("/{id}/tags/{tagID}", handlers.tagHandler.addTagToPost())
		r.Delete("/{id}/tags/{tagID}", handlers.tagHandler.removeTagFromPost())
	})

	// Tag Handler endpoints
	r.Route("/tags", func(r chi.Router) {
		r.Post("/", handlers.tagHandler.createTag())
		r.Get("/", handlers.tagHandler.listTags())
		r.Get("/by-name/{name}", handlers.tagHandler.getTagByName())
		r.Get("/{id}", handlers.tagHandler.getTag())
		r.Put("/{id}", handlers.tagHandler.updateTag())
		r.Delete("/{id}", handlers.tagHandler.deleteTag())
	})
}
