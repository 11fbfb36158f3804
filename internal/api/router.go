package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api/handlers"
	"github.com/shareit-app/referral-service/internal/api/middleware"
)

// Deps is everything the router needs; interfaces so tests can swap fakes in.
type Deps struct {
	Offers     handlers.OfferAPI
	Ratings    handlers.RatingAPI
	Graph      handlers.GraphAPI
	Directory  handlers.DirectoryAPI
	Users      handlers.UserAPI
	Businesses handlers.BusinessAPI

	JWTSecret    string
	ShareBaseURL string
	BlobDir      string
	Log          *zap.Logger
}

// NewRouter builds the HTTP surface for the referral service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Metrics)

	offerHandler := handlers.NewOfferHandler(d.Offers, d.Log)
	ratingHandler := handlers.NewRatingHandler(d.Ratings, d.Log)
	graphHandler := handlers.NewGraphHandler(d.Graph, d.Log)
	directoryHandler := handlers.NewDirectoryHandler(d.Directory, d.ShareBaseURL, d.Log)
	userHandler := handlers.NewUserHandler(d.Users, d.Log)
	businessHandler := handlers.NewBusinessHandler(d.Businesses, d.Log)

	// unauthenticated surface
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/recommendations/{id}/qr", directoryHandler.ShareQR)
	if d.BlobDir != "" {
		fs := http.StripPrefix("/blobs/", http.FileServer(http.Dir(d.BlobDir)))
		r.Get("/blobs/*", fs.ServeHTTP)
	}

	// everything else requires an identity token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.JWTSecret))

		r.Post("/users/me", userHandler.SyncMe)
		r.Get("/users/me/saved-offers", offerHandler.Wallet)
		r.Get("/users/{id}", userHandler.Get)

		r.Get("/businesses", businessHandler.List)
		r.Get("/businesses/{id}", businessHandler.Get)

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", offerHandler.Create)
			r.Get("/", directoryHandler.List)
			r.Get("/{id}", directoryHandler.Get)
			r.Post("/{id}/save", offerHandler.Save)
			r.Post("/{id}/ratings", ratingHandler.Rate)
		})

		r.Post("/saved-offers/{id}/claim", offerHandler.Claim)

		r.Route("/connections", func(r chi.Router) {
			r.Post("/", graphHandler.Connect)
			r.Get("/", graphHandler.List)
			r.Get("/{otherId}", graphHandler.Check)
		})
	})

	return r
}
