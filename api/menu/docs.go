// Package menu holds the Swagger document for the menu service. It is kept
// in step with the swag annotations on internal/menu/http by hand.
package menu

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/drinks": {
            "get": {
                "description": "Returns every drink with a short recipe (colors and parts only). No token required.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "List drinks",
                "responses": {
                    "200": {"description": "Menu", "schema": {"$ref": "#/definitions/menusdk.ShortDrinksResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds a drink to the menu. The recipe may be a single ingredient or a list. Requires post:drinks.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Create drink",
                "parameters": [
                    {"description": "Drink", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/menusdk.DrinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "Created drink", "schema": {"$ref": "#/definitions/menusdk.DrinksResponse"}},
                    "400": {"description": "Body is not valid JSON", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "403": {"description": "Missing permission", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "415": {"description": "Body is not JSON", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "422": {"description": "Invalid drink or duplicate title", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}}
                }
            }
        },
        "/drinks-detail": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns every drink with its full recipe. Requires get:drinks-detail.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "List drinks with recipes",
                "responses": {
                    "200": {"description": "Menu", "schema": {"$ref": "#/definitions/menusdk.DrinksResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "403": {"description": "Missing permission", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "503": {"description": "Signing keys unavailable", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}}
                }
            }
        },
        "/drinks/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes a drink from the menu. Requires delete:drinks.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Delete drink",
                "parameters": [
                    {"type": "integer", "description": "Drink id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted id", "schema": {"$ref": "#/definitions/menusdk.DeleteResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "403": {"description": "Missing permission", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "404": {"description": "No such drink", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the title and recipe of a drink. Requires patch:drinks.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Update drink",
                "parameters": [
                    {"type": "integer", "description": "Drink id", "name": "id", "in": "path", "required": true},
                    {"description": "Drink", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/menusdk.DrinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated drink", "schema": {"$ref": "#/definitions/menusdk.DrinksResponse"}},
                    "400": {"description": "Body is not valid JSON", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "403": {"description": "Missing permission", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "404": {"description": "No such drink", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}},
                    "422": {"description": "Invalid drink or duplicate title", "schema": {"$ref": "#/definitions/menusdk.ErrorResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process serves.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/menusdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe. Degraded until the database answers and the identity provider's keys are loaded.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/menusdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/menusdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "menusdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "integer"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "menusdk.DeleteResponse": {
            "type": "object",
            "properties": {
                "delete": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "menusdk.Drink": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/menusdk.Ingredient"}},
                "title": {"type": "string"}
            }
        },
        "menusdk.DrinkRequest": {
            "type": "object",
            "properties": {
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/menusdk.Ingredient"}},
                "title": {"type": "string"}
            }
        },
        "menusdk.DrinksResponse": {
            "type": "object",
            "properties": {
                "drinks": {"type": "array", "items": {"$ref": "#/definitions/menusdk.Drink"}},
                "success": {"type": "boolean"}
            }
        },
        "menusdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "key_set": {"type": "string"}
            }
        },
        "menusdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/menusdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "menusdk.Ingredient": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "name": {"type": "string"},
                "parts": {"type": "integer"}
            }
        },
        "menusdk.ShortDrink": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/menusdk.ShortIngredient"}},
                "title": {"type": "string"}
            }
        },
        "menusdk.ShortDrinksResponse": {
            "type": "object",
            "properties": {
                "drinks": {"type": "array", "items": {"$ref": "#/definitions/menusdk.ShortDrink"}},
                "success": {"type": "boolean"}
            }
        },
        "menusdk.ShortIngredient": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "parts": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Coffee Shop Menu API",
	Description:      "Drinks menu for the coffee shop. Listing drinks is public, everything else\nrequires an RS256 access token from the shop's identity provider carrying\nthe matching permission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
