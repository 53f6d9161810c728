package api

import "github.com/swaggo/swag"

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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["session"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["session"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/assets": {
            "get": {
                "security": [{"SessionAuth": []}],
                "tags": ["assets"],
                "summary": "Query assets",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "search_by", "type": "string"},
                    {"in": "query", "name": "q", "type": "string"},
                    {"in": "query", "name": "sort_by", "type": "string"},
                    {"in": "query", "name": "order", "type": "string", "enum": ["asc", "desc"]},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/fields": {
            "get": {
                "security": [{"SessionAuth": []}],
                "tags": ["assets"],
                "summary": "List fields",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.FieldInfo"}}}
                }
            }
        },
        "/view": {
            "get": {
                "security": [{"SessionAuth": []}],
                "tags": ["view"],
                "summary": "Current view",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}}}
            }
        },
        "/view/filter": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["view"],
                "summary": "Change the filter",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/api.FilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/view/sort": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["view"],
                "summary": "Toggle sorting",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/api.SortRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/view/next": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["view"],
                "summary": "Next page",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}}}
            }
        },
        "/view/previous": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["view"],
                "summary": "Previous page",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ViewResponse"}}}
            }
        },
        "/dataset": {
            "get": {
                "security": [{"SessionAuth": []}],
                "tags": ["dataset"],
                "summary": "Dataset status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DatasetInfo"}}}
            }
        },
        "/dataset/reload": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["dataset"],
                "summary": "Reload the dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DatasetInfo"}},
                    "500": {"description": "Internal Server Error"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        }
    },
    "definitions": {
        "api.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "email": {"type": "string"}, "expires_at": {"type": "string"}}
        },
        "api.FilterRequest": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "term": {"type": "string"}}
        },
        "api.SortRequest": {
            "type": "object",
            "properties": {"field": {"type": "string"}}
        },
        "api.FieldInfo": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "label": {"type": "string"}}
        },
        "api.ViewResponse": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "string"}}},
                "total_filtered": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"},
                "has_previous": {"type": "boolean"},
                "moved": {"type": "boolean"},
                "params": {"$ref": "#/definitions/query.Params"}
            }
        },
        "query.Params": {
            "type": "object",
            "properties": {
                "filter_field": {"type": "string"},
                "filter_term": {"type": "string"},
                "sort_field": {"type": "string"},
                "sort_direction": {"type": "string", "enum": ["asc", "desc"]},
                "page_number": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "api.DatasetInfo": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "records": {"type": "integer"},
                "loaded_at": {"type": "string"},
                "warnings": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"line": {"type": "integer"}, "message": {"type": "string"}}}
                }
            }
        }
    },
    "securityDefinitions": {
        "SessionAuth": {"type": "apiKey", "name": "X-Session-Token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AssetView REST API",
	Description:      "Filter, sort and page through a stock price dataset.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
