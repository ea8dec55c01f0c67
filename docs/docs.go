// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

// @title           Team Task Board API
// @version         1.0
// @description     Per-person task columns with live updates and drag-to-reorder.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @tag.name Auth
// @tag.description Google sign-in and the current session

// @tag.name Board
// @tag.description Columns, counts and the live stream

// @tag.name Tasks
// @tag.description Task creation and column reordering

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/google/login": {
            "get": {
                "tags": ["Auth"],
                "summary": "Start Google sign-in",
                "parameters": [
                    {"type": "string", "description": "origin of the page starting sign-in", "name": "origin", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/google/callback": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Google sign-in callback",
                "parameters": [
                    {"type": "string", "description": "authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "state issued by login", "name": "state", "in": "query", "required": true},
                    {"type": "string", "description": "error reported by Google", "name": "error", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}
                }
            }
        },
        "/board": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Board snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.Snapshot"}}
                }
            }
        },
        "/board/counts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Aggregate counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/board.Counts"}}
                }
            }
        },
        "/stream": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["Board"],
                "summary": "Live board updates (SSE)",
                "parameters": [
                    {"type": "string", "description": "session token, for clients that cannot set headers", "name": "token", "in": "query"}
                ],
                "responses": {}
            }
        },
        "/tasks": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Create a task",
                "parameters": [
                    {"description": "task title", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Task"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/columns/{user_id}/reorder": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Reorder a column",
                "parameters": [
                    {"type": "string", "description": "column owner", "name": "user_id", "in": "path", "required": true},
                    {"description": "task ids in their new order", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ReorderRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "board.Counts": {
            "type": "object",
            "properties": {
                "activeTasks": {"type": "integer"},
                "activeUsers": {"type": "integer"},
                "totalTasks": {"type": "integer"}
            }
        },
        "board.Snapshot": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"$ref": "#/definitions/model.Column"}},
                "counts": {"$ref": "#/definitions/board.Counts"}
            }
        },
        "handler.CreateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}
            }
        },
        "handler.ReorderRequest": {
            "type": "object",
            "properties": {
                "taskIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.SessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "model.Column": {
            "type": "object",
            "properties": {
                "activeTasks": {"type": "integer"},
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/model.Task"}},
                "userId": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "model.Task": {
            "type": "object",
            "properties": {
                "assignedTo": {"type": "string"},
                "assignedToName": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "priority": {"type": "integer"},
                "status": {"type": "string", "enum": ["in-progress", "paused"]},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["developer", "lead"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Team Task Board API",
	Description:      "Per-person task columns with live updates and drag-to-reorder.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
