package menusdk

import "github.com/aizuanjeme/coffeShop/pkg/httpx"

// ============================================================================
// Drinks
// ============================================================================

// Ingredient is one component of a drink's recipe as served by the
// authenticated endpoints.
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortIngredient is the public view of an ingredient: what the cup looks
// like, not what goes into it.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Drink is the long representation of a menu entry.
type Drink struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// ShortDrink is the public representation of a menu entry.
type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// DrinkRequest is the body of POST /drinks and PATCH /drinks/{id}.
type DrinkRequest struct {
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// ShortDrinksResponse is returned by GET /drinks.
type ShortDrinksResponse struct {
	Success bool         `json:"success"`
	Drinks  []ShortDrink `json:"drinks"`
}

// DrinksResponse is returned by GET /drinks-detail, POST /drinks and
// PATCH /drinks/{id}.
type DrinksResponse struct {
	Success bool    `json:"success"`
	Drinks  []Drink `json:"drinks"`
}

// DeleteResponse is returned by DELETE /drinks/{id}.
type DeleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

// ErrorResponse is the envelope of every failed request.
type ErrorResponse = httpx.ErrorResponse

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of the service's dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// KeySet indicates whether the identity provider's signing keys are loaded
	KeySet string `json:"key_set"`
}
