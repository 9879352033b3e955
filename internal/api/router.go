package api

import (
	"context"
	"fmt"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rohits-web03/notely/docs"
	"github.com/rohits-web03/notely/internal/api/handlers"
	"github.com/rohits-web03/notely/internal/api/middleware"
	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/config"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/metrics"
	"github.com/rs/cors"
)

type Deps struct {
	Config   *config.Config
	Handlers *handlers.Handlers
	Tokens   *auth.Tokens
	Metrics  *metrics.Metrics
	Log      logging.Logger
}

func SetupRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	protect := middleware.Auth(d.Tokens, d.Metrics)
	h := d.Handlers

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /{$}", handlers.Home)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /metrics", d.Metrics.Handler())
	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /create-account", h.CreateAccount)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /uploads/{file}", h.ServeUpload)

	if d.Config.Google.Enabled() {
		mux.HandleFunc("GET /auth/google/login", h.GoogleLogin)
		mux.HandleFunc("GET /auth/google/callback", h.GoogleCallback)
	}

	// ---------- PROTECTED ROUTES ----------
	mux.Handle("GET /get-user", protect(http.HandlerFunc(h.GetUser)))
	mux.Handle("GET /get-all-notes", protect(http.HandlerFunc(h.GetAllNotes)))
	mux.Handle("GET /get-all-notes/{$}", protect(http.HandlerFunc(h.GetAllNotes)))
	mux.Handle("POST /add-note", protect(http.HandlerFunc(h.AddNote)))
	mux.Handle("PUT /edit-note/{noteId}", protect(http.HandlerFunc(h.EditNote)))
	mux.Handle("PUT /update-note-pinned/{noteId}", protect(http.HandlerFunc(h.UpdateNotePinned)))
	mux.Handle("DELETE /delete-note/{noteId}", protect(http.HandlerFunc(h.DeleteNote)))

	d.Log.Info(context.Background(), "router initialized", "google_sign_in", d.Config.Google.Enabled())

	c := cors.New(d.Config.CorsOptions())
	handler := c.Handler(mux)
	handler = middleware.Logger(d.Log, d.Metrics)(handler)
	return handler
}
