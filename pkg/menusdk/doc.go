/*
Package menusdk provides a client for the coffee shop menu service.

# Client vs Session

The public menu is available without credentials:

	client := menusdk.NewClient("https://menu.example.com")
	drinks, err := client.ListDrinks(ctx)

Everything else needs an access token issued by the identity provider:

	barista := client.WithToken(accessToken)

	// Requires get:drinks-detail
	detail, err := barista.DrinksDetail(ctx)

	// Requires post:drinks
	drink, err := barista.CreateDrink(ctx, menusdk.DrinkRequest{Title: "latte", Recipe: recipe})

# Errors

Failed requests return an *APIError carrying the HTTP status and the
service's message. Use IsStatus to branch on it:

	if menusdk.IsStatus(err, http.StatusForbidden) {
		// token lacks the permission
	}
*/
package menusdk
