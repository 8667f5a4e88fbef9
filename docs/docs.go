// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/viewer/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns the health status of the viewer. It does not probe the table store.",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "description": "Query counts and durations, rendered rows, stale responses, refreshes and control activations, in Prometheus text format",
                "produces": ["text/plain"],
                "tags": ["System"],
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "Prometheus exposition", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/view": {
            "get": {
                "description": "Returns the rendered list, panel visibility and the last and next refresh times",
                "produces": ["application/json"],
                "tags": ["View"],
                "summary": "Current view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewResponse"}}
                }
            }
        },
        "/api/v1/controls/{id}": {
            "post": {
                "description": "Fetches the logs bound to the control and renders them into the shared list. A failed fetch keeps the previous list.",
                "produces": ["application/json"],
                "tags": ["View"],
                "summary": "Activate a filter control",
                "parameters": [
                    {"type": "string", "example": "event-member-join", "description": "Control ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ActivationResponse"}},
                    "404": {"description": "Unknown control", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/panels/{id}/toggle": {
            "post": {
                "description": "Shows a hidden panel or hides a visible one",
                "produces": ["application/json"],
                "tags": ["View"],
                "summary": "Toggle a filter panel",
                "parameters": [
                    {"enum": ["event-filters", "message-filters"], "type": "string", "description": "Panel ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PanelState"}},
                    "404": {"description": "Unknown panel", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/event-types": {
            "get": {
                "description": "Returns every event type label the log writer emits, with its description",
                "produces": ["application/json"],
                "tags": ["Logs"],
                "summary": "List event types",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/EventTypeInfo"}}}
                }
            }
        },
        "/api/v1/logs/{kind}": {
            "get": {
                "description": "Returns the typed records of event_logs or message_logs in store order. The event_type filter only applies to event logs.",
                "produces": ["application/json"],
                "tags": ["Logs"],
                "summary": "Read a log table",
                "parameters": [
                    {"enum": ["event", "message", "event_logs", "message_logs"], "type": "string", "description": "Log kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "example": "Member Join", "description": "Exact event type", "name": "event_type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LogsResponse"}},
                    "400": {"description": "Unknown log kind", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Table store query failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "HealthResponse": {
            "type": "object",
            "properties": {
                "service": {"type": "string", "example": "guild-log-viewer"},
                "status": {"type": "string", "example": "ok"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {},
                "error": {"type": "string"},
                "trace_id": {"type": "string"}
            }
        },
        "EventTypeInfo": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "Logs when a new member joins the server."},
                "type": {"type": "string", "example": "Member Join"}
            }
        },
        "EventLogRecord": {
            "type": "object",
            "properties": {
                "details": {"type": "string", "example": "alice joined the server."},
                "event_type": {"type": "string", "example": "Member Join"},
                "id": {"type": "string", "example": "1"},
                "timestamp": {"type": "string", "example": "2024-01-01T00:00:00Z"}
            }
        },
        "MessageLogRecord": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string", "example": "https://cdn.example.com/avatars/alice.png"},
                "channel": {"type": "string", "example": "general"},
                "content": {"type": "string", "example": "hello there"},
                "id": {"type": "string", "example": "42"},
                "timestamp": {"type": "string", "example": "2024-01-01T00:00:00Z"},
                "user": {"type": "string", "example": "alice#0001"}
            }
        },
        "LogsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "filter": {"type": "string", "example": "Member Join"},
                "kind": {"type": "string", "example": "event"},
                "records": {"type": "array", "items": {}},
                "table": {"type": "string", "example": "event_logs"}
            }
        },
        "Field": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "Event Type"},
                "value": {"type": "string", "example": "Member Join"}
            }
        },
        "Row": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/Field"}},
                "id": {"type": "string", "example": "1"},
                "kind": {"type": "string", "example": "event"}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "filter": {"type": "string", "example": "Member Join"},
                "kind": {"type": "string", "example": "event"},
                "rendered_at": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/Row"}},
                "sequence": {"type": "integer", "example": 3}
            }
        },
        "Control": {
            "type": "object",
            "properties": {
                "filter": {"type": "string", "example": "Member Join"},
                "hint": {"type": "string", "example": "Logs when a new member joins the server."},
                "id": {"type": "string", "example": "event-member-join"},
                "kind": {"type": "string", "example": "event"},
                "label": {"type": "string", "example": "Member Join"},
                "panel": {"type": "string", "example": "event-filters"}
            }
        },
        "PanelState": {
            "type": "object",
            "properties": {
                "display": {"type": "string", "example": "block"},
                "panel": {"type": "string", "example": "event-filters"},
                "visible": {"type": "boolean", "example": true}
            }
        },
        "ViewResponse": {
            "type": "object",
            "properties": {
                "next_refresh": {"type": "string"},
                "last_refresh": {"type": "string"},
                "panels": {"type": "array", "items": {"$ref": "#/definitions/PanelState"}},
                "view": {"$ref": "#/definitions/Snapshot"}
            }
        },
        "ActivationResponse": {
            "type": "object",
            "properties": {
                "control": {"$ref": "#/definitions/Control"},
                "fetch_failed": {"type": "boolean"},
                "view": {"$ref": "#/definitions/Snapshot"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Guild Log Viewer API",
	Description:      "Read-only viewer over the event_logs and message_logs tables written by the guild audit bot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
