package http

import (
	"log/slog"
	"net/http"

	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/slogx"
)

// writeAuthzError answers a refused request with the failure's status and
// message. The token itself is never logged.
func writeAuthzError(w http.ResponseWriter, r *http.Request, perm string, err error) {
	log := slogx.FromContext(r.Context())

	f, ok := authz.AsFailure(err)
	if !ok {
		log.Error("authorization failed unexpectedly", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
		return
	}

	level := slog.LevelWarn
	if f.Kind == authz.TokenExpired {
		level = slog.LevelInfo
	}
	attrs := []any{"kind", f.Kind.String(), "permission", perm, "status", f.Status}
	if f.Claim != "" {
		attrs = append(attrs, "claim", f.Claim)
	}
	log.Log(r.Context(), level, "request not authorized", append(attrs, "error", f)...)

	if f.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	httpx.WriteError(w, f.Status, f.Message)
}
