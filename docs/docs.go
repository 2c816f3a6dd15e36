// Package docs registers the OpenAPI description served at /swagger.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Service health", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Database unreachable"}}}
        },
        "/api/debug/me": {
            "get": {"tags": ["debug"], "summary": "Get current user info", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/reports": {
            "get": {
                "tags": ["reports"],
                "summary": "List reports from the live board",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "traffic, suspicious or all", "name": "type", "in": "query"},
                    {"type": "string", "description": "Status or all", "name": "status", "in": "query"},
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "start", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "end", "in": "query"},
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"},
                    {"type": "string", "description": "Sort key", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "dir", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid filter"}}
            }
        },
        "/api/reports/export": {
            "get": {
                "tags": ["reports"],
                "summary": "Export filtered reports",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "description": "csv (default) or xlsx", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/api/reports/{id}": {
            "get": {
                "tags": ["reports"],
                "summary": "Get report detail",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Report ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Report not found"}}
            }
        },
        "/api/reports/{id}/status": {
            "patch": {
                "tags": ["reports"],
                "summary": "Update report status",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Report ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"status": {"type": "string", "enum": ["pending", "in review", "resolved", "rejected"]}}}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}, "404": {"description": "Report not found"}}
            }
        },
        "/api/dashboard": {
            "get": {"tags": ["dashboard"], "summary": "Dashboard KPIs, distribution and recent reports", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/dashboard/heatmap": {
            "get": {"tags": ["dashboard"], "summary": "Heatmap points and markers", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/dashboard/kpis/history": {
            "get": {"tags": ["dashboard"], "summary": "Persisted KPI snapshots", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/feedback": {
            "get": {"tags": ["feedback"], "summary": "List user feedback, newest first", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/feedback/{id}": {
            "get": {
                "tags": ["feedback"],
                "summary": "Get feedback detail",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Feedback ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Feedback not found"}}
            }
        },
        "/api/audit-logs": {
            "get": {"tags": ["audit"], "summary": "List audit logs", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus Incidents API",
	Description:      "Live incident report dashboard for campus staff",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
