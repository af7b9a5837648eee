// Package detect implements the skin-lesion detection service: the
// request-scoped pipeline that classifies an uploaded image, archives it, and
// records the result, plus the read-only history endpoints over that log.
package detect

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gos3 "skinective/pkg/s3"
)

const detectionRecordedSubject = "skinective.detections.recorded"

// Store holds the shared external dependencies of the service. Bus is
// optional; the service runs without a broker.
type Store struct {
	DB  *pgxpool.Pool
	S3  *gos3.Client
	Bus *nats.Conn
}

// Config controls runtime behaviour for the API handlers.
type Config struct {
	Bucket        string
	PublicBaseURL string
	MaxUploadMB   int64
}

// API wires the orchestrator, repositories, and configuration for HTTP
// handlers.
type API struct {
	store        *Store
	orchestrator *Orchestrator
	catalog      DiseaseCatalog
	history      HistoryStore
	users        UserDirectory
	config       Config
	logger       *log.Logger
}

// New initialises the API layer with defaults applied to the provided
// configuration. The classifier is injected so the composition root owns the
// model lifecycle.
func New(store *Store, classifier Classifier, logger *log.Logger, cfg Config) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.DB == nil {
		return nil, errors.New("store DB is required")
	}
	if store.S3 == nil {
		return nil, errors.New("store S3 is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	if cfg.Bucket == "" {
		cfg.Bucket = os.Getenv("S3_BUCKET")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	catalog := NewCatalogRepo(store.DB)
	history := NewHistoryRepo(store.DB)
	users := NewUserRepo(store.DB)
	archive := NewS3Archive(store.S3, cfg.Bucket, cfg.PublicBaseURL)

	return &API{
		store:        store,
		orchestrator: NewOrchestrator(classifier, catalog, archive, history, logger),
		catalog:      catalog,
		history:      history,
		users:        users,
		config:       cfg,
		logger:       logger,
	}, nil
}

// Catalog exposes the disease catalog for startup validation.
func (a *API) Catalog() DiseaseCatalog { return a.catalog }

// Routes constructs the chi router containing all endpoints.
func (a *API) Routes() (http.Handler, error) {
	if a == nil {
		return nil, errors.New("nil api")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", a.handleHome)
	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/detect/{userId}", a.handleDetect)
	r.Get("/detect/history", a.handleHistory)
	r.Get("/detect/history/{userId}", a.handleHistoryByUser)

	return r, nil
}

func (a *API) handleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Skinective detection API.",
	})
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DB.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
