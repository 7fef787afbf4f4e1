package httpx

import (
	"net/http"

	"github.com/elnormous/contenttype"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// RequireJSON rejects request bodies that are not declared as JSON with 415.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			WriteError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
