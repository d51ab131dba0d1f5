// Package docs registers the Swagger description of the items API served at
// /docs when enabled.
//
//	@title			Items API
//	@version		1.0.0
//	@description	In-memory CRUD service for catalogue items.
//	@BasePath		/
package docs

import (
	"github.com/swaggo/swag"
)

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
        "/ping": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ping"}}
                }
            }
        },
        "/items": {
            "get": {
                "tags": ["Items"],
                "summary": "List items in insertion order",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Item"}}}
                }
            },
            "post": {
                "tags": ["Items"],
                "summary": "Create an item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "item", "required": true, "schema": {"$ref": "#/definitions/ItemInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Item"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "type": "integer", "required": true}
            ],
            "get": {
                "tags": ["Items"],
                "summary": "Get an item",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Item"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Items"],
                "summary": "Replace the supplied fields of an item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "item", "required": true, "schema": {"$ref": "#/definitions/ItemInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Item"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Items"],
                "summary": "Delete an item",
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "Ping": {
            "type": "object",
            "properties": {"ok": {"type": "boolean", "example": true}}
        },
        "Item": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Item 1"},
                "price": {"type": "number", "minimum": 0, "example": 10}
            }
        },
        "ItemInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Item 1"},
                "price": {"type": "number", "minimum": 0, "description": "Bare JSON number; at most 30 digits when written out in full", "example": 10}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "price"},
                "message": {"type": "string", "example": "Field \"price\" is required"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Items API",
	Description:      "In-memory CRUD service for catalogue items.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
