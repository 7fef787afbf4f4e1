package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/internal/menu/service"
	"github.com/aizuanjeme/coffeShop/internal/menu/store"
	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/menusdk"
	"github.com/aizuanjeme/coffeShop/pkg/slogx"
)

const maxBodyBytes = 1 << 20

// AuthorizedFunc is a handler that runs only after the gate granted the
// request. It receives the verified claims explicitly.
type AuthorizedFunc func(w http.ResponseWriter, r *http.Request, claims *authz.DecodedClaims)

type DrinksHandler struct {
	Gate   *authz.Gate
	Drinks *service.DrinkService
}

// protect runs the gate for perm and only calls fn when it grants access.
func (h *DrinksHandler) protect(perm string, fn AuthorizedFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.Gate.Authorize(r.Context(), r.Header, perm)
		if err != nil {
			writeAuthzError(w, r, perm, err)
			return
		}
		fn(w, r, claims)
	})
}

// HandleList serves the public menu.
//
//	@Summary		List drinks
//	@Description	Returns every drink with a short recipe (colors and parts only). No token required.
//	@Tags			Drinks
//	@Produce		json
//	@Success		200	{object}	menusdk.ShortDrinksResponse	"Menu"
//	@Failure		429	{object}	menusdk.ErrorResponse		"Too many requests"
//	@Failure		500	{object}	menusdk.ErrorResponse		"Internal server error"
//	@Router			/drinks [get]
func (h *DrinksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.Drinks.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := menusdk.ShortDrinksResponse{Success: true, Drinks: make([]menusdk.ShortDrink, len(drinks))}
	for i, d := range drinks {
		resp.Drinks[i] = shortDrink(d)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDetail serves the menu with full recipes.
//
//	@Summary		List drinks with recipes
//	@Description	Returns every drink with its full recipe. Requires get:drinks-detail.
//	@Tags			Drinks
//	@Produce		json
//	@Success		200	{object}	menusdk.DrinksResponse	"Menu"
//	@Failure		401	{object}	menusdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	menusdk.ErrorResponse	"Missing permission"
//	@Failure		503	{object}	menusdk.ErrorResponse	"Signing keys unavailable"
//	@Security		BearerAuth
//	@Router			/drinks-detail [get]
func (h *DrinksHandler) HandleDetail(w http.ResponseWriter, r *http.Request, _ *authz.DecodedClaims) {
	drinks, err := h.Drinks.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := menusdk.DrinksResponse{Success: true, Drinks: make([]menusdk.Drink, len(drinks))}
	for i, d := range drinks {
		resp.Drinks[i] = longDrink(d)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate adds a drink.
//
//	@Summary		Create drink
//	@Description	Adds a drink to the menu. The recipe may be a single ingredient or a list. Requires post:drinks.
//	@Tags			Drinks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		menusdk.DrinkRequest	true	"Drink"
//	@Success		200		{object}	menusdk.DrinksResponse	"Created drink"
//	@Failure		400		{object}	menusdk.ErrorResponse	"Body is not valid JSON"
//	@Failure		401		{object}	menusdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	menusdk.ErrorResponse	"Missing permission"
//	@Failure		415		{object}	menusdk.ErrorResponse	"Body is not JSON"
//	@Failure		422		{object}	menusdk.ErrorResponse	"Invalid drink or duplicate title"
//	@Security		BearerAuth
//	@Router			/drinks [post]
func (h *DrinksHandler) HandleCreate(w http.ResponseWriter, r *http.Request, claims *authz.DecodedClaims) {
	d, ok := decodeDrink(w, r)
	if !ok {
		return
	}

	created, err := h.Drinks.Create(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("drink created", "drink_id", created.ID, "sub", claims.Subject)
	httpx.WriteJSON(w, http.StatusOK, menusdk.DrinksResponse{Success: true, Drinks: []menusdk.Drink{longDrink(created)}})
}

// HandleUpdate replaces a drink's title and recipe.
//
//	@Summary		Update drink
//	@Description	Replaces the title and recipe of a drink. Requires patch:drinks.
//	@Tags			Drinks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Drink id"
//	@Param			request	body		menusdk.DrinkRequest	true	"Drink"
//	@Success		200		{object}	menusdk.DrinksResponse	"Updated drink"
//	@Failure		400		{object}	menusdk.ErrorResponse	"Body is not valid JSON"
//	@Failure		401		{object}	menusdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	menusdk.ErrorResponse	"Missing permission"
//	@Failure		404		{object}	menusdk.ErrorResponse	"No such drink"
//	@Failure		422		{object}	menusdk.ErrorResponse	"Invalid drink or duplicate title"
//	@Security		BearerAuth
//	@Router			/drinks/{id} [patch]
func (h *DrinksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, claims *authz.DecodedClaims) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}
	d, ok := decodeDrink(w, r)
	if !ok {
		return
	}

	updated, err := h.Drinks.Update(r.Context(), id, d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("drink updated", "drink_id", id, "sub", claims.Subject)
	httpx.WriteJSON(w, http.StatusOK, menusdk.DrinksResponse{Success: true, Drinks: []menusdk.Drink{longDrink(updated)}})
}

// HandleDelete removes a drink.
//
//	@Summary		Delete drink
//	@Description	Removes a drink from the menu. Requires delete:drinks.
//	@Tags			Drinks
//	@Produce		json
//	@Param			id	path		int						true	"Drink id"
//	@Success		200	{object}	menusdk.DeleteResponse	"Deleted id"
//	@Failure		401	{object}	menusdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	menusdk.ErrorResponse	"Missing permission"
//	@Failure		404	{object}	menusdk.ErrorResponse	"No such drink"
//	@Security		BearerAuth
//	@Router			/drinks/{id} [delete]
func (h *DrinksHandler) HandleDelete(w http.ResponseWriter, r *http.Request, claims *authz.DecodedClaims) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}

	if err := h.Drinks.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("drink deleted", "drink_id", id, "sub", claims.Subject)
	httpx.WriteJSON(w, http.StatusOK, menusdk.DeleteResponse{Success: true, Delete: id})
}

// drinkRequest mirrors menusdk.DrinkRequest but accepts a single
// ingredient object as the recipe.
type drinkRequest struct {
	Title  string        `json:"title"`
	Recipe domain.Recipe `json:"recipe"`
}

func decodeDrink(w http.ResponseWriter, r *http.Request) (domain.Drink, bool) {
	var req drinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slogx.FromContext(r.Context()).Debug("invalid drink body", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, "")
		return domain.Drink{}, false
	}
	return domain.Drink{Title: req.Title, Recipe: req.Recipe}, true
}

// drinkID parses the {id} path segment. Anything that is not a positive
// integer cannot name a drink.
func drinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.WriteError(w, http.StatusNotFound, "")
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "")
	case errors.Is(err, domain.ErrInvalidDrink), errors.Is(err, store.ErrAlreadyExists):
		slogx.FromContext(r.Context()).Info("drink rejected", "error", err)
		httpx.WriteError(w, http.StatusUnprocessableEntity, "")
	default:
		slogx.FromContext(r.Context()).Error("menu operation failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
	}
}

func shortDrink(d domain.Drink) menusdk.ShortDrink {
	s := d.Short()
	out := menusdk.ShortDrink{ID: s.ID, Title: s.Title, Recipe: make([]menusdk.ShortIngredient, len(s.Recipe))}
	for i, in := range s.Recipe {
		out.Recipe[i] = menusdk.ShortIngredient(in)
	}
	return out
}

func longDrink(d domain.Drink) menusdk.Drink {
	l := d.Long()
	out := menusdk.Drink{ID: l.ID, Title: l.Title, Recipe: make([]menusdk.Ingredient, len(l.Recipe))}
	for i, in := range l.Recipe {
		out.Recipe[i] = menusdk.Ingredient(in)
	}
	return out
}
