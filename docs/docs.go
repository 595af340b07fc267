// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["greeting"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Message"}
                    }
                }
            }
        },
        "/api/hello": {
            "get": {
                "produces": ["application/json"],
                "tags": ["greeting"],
                "summary": "Greet the caller",
                "parameters": [
                    {
                        "type": "string",
                        "default": "World",
                        "description": "Name to greet",
                        "name": "name",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Message"}
                    }
                }
            }
        },
        "/api/items": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List all items",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/domain.Item"}
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    }
                }
            },
            "post": {
                "description": "Omitted or null fields default to name \"Unnamed\" and an empty description.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Create an item",
                "parameters": [
                    {
                        "description": "New item",
                        "name": "item",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.CreateItemRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Item"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    }
                }
            }
        },
        "/api/items/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get an item by id",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Item id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Item"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    },
                    "404": {
                        "description": "Item not found"
                    }
                }
            },
            "delete": {
                "tags": ["items"],
                "summary": "Delete an item",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Item id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Item deleted"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/api.ErrorResponse"}
                    },
                    "404": {
                        "description": "Item not found"
                    }
                }
            }
        }
    },
    "definitions": {
        "api.CreateItemRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "domain.Item": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "timestamp": {"type": "string"}
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
	Title:            "Sample Items API",
	Description:      "Greeting, health and in-memory item CRUD endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
