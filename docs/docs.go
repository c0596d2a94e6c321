// Package docs holds the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "parameters": [
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "limit", "in": "query"},
                {"type": "string", "name": "search", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["events"], "summary": "Create an event", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/events/{id}": {
            "get": {"tags": ["events"], "summary": "Event detail", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["events"], "summary": "Update an event", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Capacity below sold tickets"}}},
            "delete": {"tags": ["events"], "summary": "Delete an event and its tickets", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/events/{id}/book": {
            "post": {"tags": ["bookings"], "summary": "Buy one ticket", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Sold out"}, "402": {"description": "Payment not confirmed"}}}
        },
        "/tickets": {
            "get": {"tags": ["tickets"], "summary": "Own tickets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/tickets/{id}/cancel": {
            "post": {"tags": ["cancellations"], "summary": "Cancel an unused ticket", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid transition"}}}
        },
        "/verify/tickets": {
            "post": {"tags": ["verification"], "summary": "Redeem a ticket", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already redeemed"}}}
        },
        "/verify/invitations": {
            "post": {"tags": ["verification"], "summary": "Redeem an invitation", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already redeemed"}}}
        },
        "/invitations": {
            "get": {"tags": ["invitations"], "summary": "List invitations", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["invitations"], "summary": "Create an invitation", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/analytics/provider": {
            "get": {"tags": ["analytics"], "summary": "Provider dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/analytics/staff": {
            "get": {"tags": ["analytics"], "summary": "Staff dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/analytics/admin": {
            "get": {"tags": ["analytics"], "summary": "Admin dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/commission-rate": {
            "get": {"tags": ["admin"], "summary": "Current commission rate", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["admin"], "summary": "Override the commission rate", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Revert to the configured rate", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TicketFlow API",
	Description:      "Ticket issuance and redemption ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
