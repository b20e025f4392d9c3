// Package docs holds the OpenAPI document for the api service
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{.Description}}",
    "version": "{{.Version}}"
  },
  "servers": [{"url": "{{.BasePath}}"}],
  "components": {
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    },
    "parameters": {
      "companyID": {
        "name": "companyID", "in": "path", "required": true,
        "schema": {"type": "string", "format": "uuid"}
      }
    },
    "schemas": {
      "StatusView": {
        "type": "object",
        "properties": {
          "company_id": {"type": "string", "format": "uuid"},
          "status": {"type": "string", "enum": ["DISCONNECTED", "CONFIGURED", "CONNECTED", "ERROR"]},
          "has_token": {"type": "boolean"},
          "valid_until": {"type": "string", "format": "date-time"},
          "last_checked_at": {"type": "string", "format": "date-time"},
          "last_error_code": {"type": "string", "example": "authority_rejected"},
          "last_error": {"type": "string", "example": "KSeF authorization failed"}
        },
        "required": ["company_id", "status", "has_token"]
      },
      "SaveTokenInput": {
        "type": "object",
        "properties": {
          "token": {"type": "string", "minLength": 16, "maxLength": 4096},
          "tax_id": {"type": "string", "example": "5260250274"}
        },
        "required": ["token"]
      },
      "TestResult": {
        "type": "object",
        "properties": {
          "success": {"type": "boolean"},
          "valid_until": {"type": "string", "format": "date-time"}
        },
        "required": ["success", "valid_until"]
      },
      "Envelope": {
        "type": "object",
        "description": "Every response body. data is set on success, code and error on failure.",
        "properties": {
          "status_code": {"type": "integer", "format": "int32", "example": 424},
          "status": {"type": "string", "example": "Failed Dependency"},
          "code": {"type": "integer", "format": "int32", "example": 15},
          "error": {"type": "string", "example": "KSeF authorization failed"},
          "field": {"type": "string", "example": "token"},
          "request_id": {"type": "string", "example": "ksef-api/Xq3j9a-000042"},
          "data": {}
        },
        "required": ["status_code", "status"]
      }
    },
    "responses": {
      "Problem": {
        "description": "Error",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}
      }
    }
  },
  "paths": {
    "/companies/{companyID}/ksef": {
      "get": {
        "tags": ["ksef"], "summary": "KSeF connection status", "operationId": "ksefStatus",
        "security": [{"bearerAuth": []}],
        "parameters": [{"$ref": "#/components/parameters/companyID"}],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StatusView"}}}},
          "403": {"$ref": "#/components/responses/Problem"},
          "404": {"$ref": "#/components/responses/Problem"}
        }
      }
    },
    "/companies/{companyID}/ksef/token": {
      "put": {
        "tags": ["ksef"], "summary": "Store or rotate the KSeF token", "operationId": "ksefSaveToken",
        "security": [{"bearerAuth": []}],
        "parameters": [{"$ref": "#/components/parameters/companyID"}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/SaveTokenInput"}}}
        },
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StatusView"}}}},
          "422": {"$ref": "#/components/responses/Problem"}
        }
      },
      "delete": {
        "tags": ["ksef"], "summary": "Remove the KSeF token", "operationId": "ksefDisconnect",
        "security": [{"bearerAuth": []}],
        "parameters": [{"$ref": "#/components/parameters/companyID"}],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StatusView"}}}}
        }
      }
    },
    "/companies/{companyID}/ksef/test": {
      "post": {
        "tags": ["ksef"], "summary": "Test the KSeF connection", "operationId": "ksefTest",
        "description": "Authenticates against KSeF with the stored token. The outcome is recorded on the company unless dry_run is set.",
        "security": [{"bearerAuth": []}],
        "parameters": [
          {"$ref": "#/components/parameters/companyID"},
          {"name": "dry_run", "in": "query", "required": false, "schema": {"type": "boolean"}}
        ],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/TestResult"}}}},
          "412": {"$ref": "#/components/responses/Problem"},
          "424": {"$ref": "#/components/responses/Problem"},
          "429": {"$ref": "#/components/responses/Problem"},
          "503": {"$ref": "#/components/responses/Problem"},
          "504": {"$ref": "#/components/responses/Problem"}
        }
      }
    },
    "/meta/health": {
      "get": {"tags": ["meta"], "summary": "Health check", "operationId": "metaHealth", "responses": {"200": {"description": "ok"}}}
    },
    "/meta/ready": {
      "get": {"tags": ["meta"], "summary": "Readiness probe with dependency checks", "operationId": "metaReady", "responses": {"200": {"description": "ok"}}}
    },
    "/meta/version": {
      "get": {"tags": ["meta"], "summary": "Build and version info", "operationId": "metaVersion", "responses": {"200": {"description": "ok"}}}
    },
    "/meta/service": {
      "get": {"tags": ["meta"], "summary": "Service info and uptime", "operationId": "metaService", "responses": {"200": {"description": "ok"}}}
    }
  }
}`

// SwaggerInfo holds the exported spec info so callers can adjust it before serving
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Title:            "ksefconnect API",
	Description:      "Per company KSeF credentials and connection checks",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
