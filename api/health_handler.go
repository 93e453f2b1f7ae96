package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		database:    db,
		startupTime: startupTime,
	}
}

// health handles GET /health. A failing database ping answers 503.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.database.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseConnectionError(err))
			return
		}

		h.responder.WriteJSON(w, healthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		})
	}
}
