// Package api exposes the tally engine operations over HTTP. Every
// state-changing request carries a caller signature over its raw body; the
// recovered address is the identity the engine gates on. The oracle
// callback endpoint is the only unauthenticated mutation: the engine
// accepts it solely on proof verification.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/tally"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host   string
	Port   int
	Engine *tally.Engine
}

// API type represents the API HTTP server.
type API struct {
	router *chi.Mux
	engine *tally.Engine
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing tally engine")
	}
	a := &API{engine: conf.Engine}
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// NewRouter creates an API instance without starting a server, for tests
// and embedding.
func NewRouter(engine *tally.Engine) *API {
	a := &API{engine: engine}
	a.initRouter()
	return a
}

// Router returns the chi router.
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		httpWriteOK(w)
	})
	a.router.Post(InitializeEndpoint, a.initialize)
	a.router.Get(ConfigEndpoint, a.config)
	a.router.Post(CooldownEndpoint, a.setCooldown)
	a.router.Post(PauseEndpoint, a.pause)
	a.router.Post(UnpauseEndpoint, a.unpause)
	a.router.Post(ProvidersEndpoint, a.addProvider)
	a.router.Delete(ProviderEndpoint, a.removeProvider)
	a.router.Get(ProviderEndpoint, a.provider)
	a.router.Post(BatchesEndpoint, a.openBatch)
	a.router.Get(BatchEndpoint, a.batch)
	a.router.Post(BatchCloseEndpoint, a.closeBatch)
	a.router.Post(EntriesEndpoint, a.commit)
	a.router.Post(DecryptEndpoint, a.requestDecryption)
	a.router.Post(CallbackEndpoint, a.callback)
	a.router.Get(RequestsEndpoint, a.request)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SignatureHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
