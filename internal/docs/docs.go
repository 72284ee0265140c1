// Package docs registers the OpenAPI description of the HTTP API with swag.
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
        "/auth/login": {
            "post": {
                "description": "E-mails a magic link that signs the address in, registering it on first use",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request a sign-in link",
                "parameters": [
                    {"description": "Login request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.FormState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.FormState"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.FormState"}}
                }
            }
        },
        "/auth/callback": {
            "get": {
                "description": "Exchanges a magic-link token for a session cookie and redirects to the group list",
                "tags": ["auth"],
                "summary": "Complete sign-in",
                "parameters": [
                    {"type": "string", "description": "Magic-link token", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Clears the session cookie",
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/me": {
            "get": {
                "description": "Returns the user the session belongs to",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/groups": {
            "get": {
                "description": "Get a paginated list of the groups the caller created",
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "List the caller's groups",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "per_page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            },
            "post": {
                "description": "Creates a group owned by the caller, adds the participants, draws the Secret Santa assignments and e-mails every participant. Accepts a form with groupName and parallel name/email fields, or JSON.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Create a group and draw it",
                "parameters": [
                    {"description": "Group creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/group.CreateGroupRequest"}}
                ],
                "responses": {
                    "303": {"description": "Redirect to /groups/{id}"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.FormState"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.FormState"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.FormState"}}
                }
            }
        },
        "/groups/{id}": {
            "get": {
                "description": "Get a group owned by the caller with its participants. Assignments stay secret.",
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Get group by ID",
                "parameters": [
                    {"type": "string", "description": "Group ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "maria@example.com"},
                "name": {"type": "string", "example": "Maria"}
            }
        },
        "group.CreateGroupRequest": {
            "type": "object",
            "properties": {
                "groupName": {"type": "string"},
                "name": {"type": "string", "example": "Família"},
                "participants": {"type": "array", "items": {"$ref": "#/definitions/group.ParticipantInput"}}
            }
        },
        "group.ParticipantInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "maria@example.com"},
                "name": {"type": "string", "example": "Maria"}
            }
        },
        "response.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/response.APIError"},
                "meta": {"$ref": "#/definitions/response.Meta"},
                "success": {"type": "boolean"}
            }
        },
        "response.FormState": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "response.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Secret Santa API",
	Description:      "Create Secret Santa groups, draw them and e-mail every participant their assignment.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
