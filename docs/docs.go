// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Field validation failed"},
                    "409": {"description": "Username or email taken"},
                    "429": {"description": "Rate limited"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"},
                    "429": {"description": "Too many login attempts"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Access token required"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Update profile",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Field validation failed"}}
            }
        },
        "/food": {
            "get": {"tags": ["food"], "summary": "List food items", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["food"],
                "summary": "Create food item",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Business rule failed"}, "403": {"description": "Admin rights required"}}
            }
        },
        "/food/search": {
            "get": {"tags": ["food"], "summary": "Search food items", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad query"}}}
        },
        "/food/categories/list": {
            "get": {"tags": ["food"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}
        },
        "/food/{id}": {
            "get": {"tags": ["food"], "summary": "Get food item", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["food"], "summary": "Update food item", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["food"], "summary": "Delete food item", "responses": {"200": {"description": "OK"}}}
        },
        "/orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "List all orders", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Place an order", "responses": {"201": {"description": "Created"}}}
        },
        "/orders/my-orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "List the caller's orders", "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Get an order", "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}/cancel": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Cancel a pending order", "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}/status": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Move an order through its lifecycle", "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid transition"}}}
        },
        "/admin/verify-password": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Verify the admin step-up secret", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid admin password"}}}
        },
        "/admin/confirm-order/{orderId}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Confirm a pending order", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Admin dashboard", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List users", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users/{userId}/role": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Change a user's role", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/food/{foodId}/availability": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Toggle food availability", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/food/statistics": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Catalog statistics", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Food Ordering API",
	Description:      "Catalog, orders and admin console behind a request-security pipeline.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
