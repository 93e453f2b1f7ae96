package api

import (
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, maxBodyBytes int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		postHandler:   newPostHandler(database.PostRepo(), maxBodyBytes),
		tagHandler:    newTagHandler(database.TagRepo(), maxBodyBytes),
		healthHandler: newHealthHandler(database, startupTime),
	}
}
