// Package docs holds the OpenAPI description served under /swagger when the
// binary is built with -tags=swagger. Regenerate with
// `swag init -g cmd/modelsvc/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Model status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/describe": {
            "get": {
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Model metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelInfo"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.MessageResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Score one input",
                "parameters": [{"description": "model input fields", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.MessageResponse"}}
                }
            }
        },
        "/run": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Run a file job",
                "parameters": [{"description": "job", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.JobRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.MessageResponse"}}
                }
            }
        },
        "/shutdown": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Stop the service",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "ready"},
                "statusCode": {"type": "integer", "example": 200},
                "status": {"type": "string", "example": "OK"}
            }
        },
        "types.JobRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "file"},
                "input": {"type": "string", "example": "/data/in"},
                "output": {"type": "string", "example": "/data/out"}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "model": {"type": "string", "example": "textscore"},
                "version": {"type": "string", "example": "1.0.0"},
                "result": {"type": "object"}
            }
        },
        "types.FieldInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "required": {"type": "boolean"},
                "description": {"type": "string"},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "enum": {"type": "array", "items": {"type": "string"}},
                "max_len": {"type": "integer"}
            }
        },
        "types.ModelInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "version": {"type": "string"},
                "description": {"type": "string"},
                "inputs": {"type": "array", "items": {"$ref": "#/definitions/types.FieldInfo"}},
                "outputs": {"type": "array", "items": {"$ref": "#/definitions/types.FieldInfo"}},
                "input_files": {"type": "array", "items": {"type": "string"}},
                "output_files": {"type": "array", "items": {"type": "string"}},
                "extra": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "status": {"type": "string"},
                "state": {"type": "string", "example": "ready"},
                "model": {"$ref": "#/definitions/types.ModelInfo"},
                "last_error": {"type": "string"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"},
                "inflight": {"type": "integer"},
                "queue_len": {"type": "integer"},
                "max_concurrency": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "modelsvc API",
	Description:      "HTTP API serving a single prediction model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
