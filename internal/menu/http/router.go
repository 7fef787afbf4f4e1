package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/internal/menu/service"
	"github.com/aizuanjeme/coffeShop/internal/menu/store"
	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/slogx"

	_ "github.com/aizuanjeme/coffeShop/api/menu" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// KeyState reports whether the identity provider's signing keys are loaded.
type KeyState interface {
	IsReady() bool
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *authz.Gate
	keys         KeyState
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits

	store        store.Store
	DrinkService *service.DrinkService
}

func NewRouter(
	gate *authz.Gate,
	keys KeyState,
	buildVersion string,
	st store.Store,
	limits httpx.RateLimits,
	corsOrigin string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		gate:         gate,
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limits:       limits,
		logger:       logger,
		DrinkService: &service.DrinkService{Store: st},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigin),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerDrinks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.Handle("/", http.HandlerFunc(notFound))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Coffee Shop Menu API
//	@version		0.1.0
//	@description	Drinks menu for the coffee shop. Listing drinks is public, everything else
//	@description	requires an RS256 access token from the shop's identity provider carrying
//	@description	the matching permission.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerDrinks() {
	h := &DrinksHandler{Gate: r.gate, Drinks: r.DrinkService}

	// GET /drinks - anonymous, high limit
	r.Mux.Handle("GET /drinks",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)

	r.Mux.Handle("GET /drinks-detail",
		httpx.Chain(h.protect(domain.PermGetDrinksDetail, h.HandleDetail),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	// Menu changes - moderate limit. The body type is checked before the token.
	r.Mux.Handle("POST /drinks",
		httpx.Chain(h.protect(domain.PermPostDrinks, h.HandleCreate),
			httpx.RateLimitByIP(r.limits.Moderate),
			httpx.RequireJSON,
		),
	)
	r.Mux.Handle("PATCH /drinks/{id}",
		httpx.Chain(h.protect(domain.PermPatchDrinks, h.HandleUpdate),
			httpx.RateLimitByIP(r.limits.Moderate),
			httpx.RequireJSON,
		),
	)
	r.Mux.Handle("DELETE /drinks/{id}",
		httpx.Chain(h.protect(domain.PermDeleteDrinks, h.HandleDelete),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	// Method-less patterns lose to the ones above, so they only see
	// methods nothing else accepts.
	r.Mux.Handle("/drinks", methodNotAllowed("GET, POST, OPTIONS"))
	r.Mux.Handle("/drinks-detail", methodNotAllowed("GET, OPTIONS"))
	r.Mux.Handle("/drinks/{id}", methodNotAllowed("PATCH, DELETE, OPTIONS"))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteError(w, http.StatusNotFound, "")
}

func methodNotAllowed(allow string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		httpx.WriteError(w, http.StatusMethodNotAllowed, "")
	})
}
