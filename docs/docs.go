// Package docs registers the OpenAPI description of the HTTP API with swag,
// served by the Swagger UI at /swagger/. Keep it in sync with the handler annotations
// (swag init -g cmd/server/main.go).
package docs

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
        "/event": {
            "get": {
                "description": "Event name, date, location and prices per guest category",
                "produces": ["application/json"],
                "tags": ["registration"],
                "summary": "Event information",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.EventResponse"}}
                }
            }
        },
        "/registration/step": {
            "post": {
                "description": "Applies one action (verify, decline, guests, back, reset) to the state returned by the previous call.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registration"],
                "summary": "Advance the registration wizard",
                "parameters": [
                    {"description": "Current state and action", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/model.StepRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StepResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/payment/qr": {
            "get": {
                "description": "Renders a PIX charge to the event account as a PNG. Without amount the payer types it.",
                "produces": ["image/png"],
                "tags": ["payment"],
                "summary": "PIX QR code",
                "parameters": [
                    {"type": "string", "description": "Amount in BRL, up to 2 decimals (e.g. 75.00)", "name": "amount", "in": "query"},
                    {"type": "string", "description": "Reference tag, up to 25 letters and digits", "name": "ref", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/visits": {
            "post": {
                "description": "Registers the invited participant and companions for facility access.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["visits"],
                "summary": "Register a visit",
                "parameters": [
                    {"description": "Visitors", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/model.VisitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VisitResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/admin/confirmations": {
            "get": {
                "description": "All confirmations, newest first, with totals",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List confirmations",
                "parameters": [
                    {"type": "string", "description": "Admin password", "name": "X-Admin-Password", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ConfirmationsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/admin/confirmations/export": {
            "get": {
                "description": "Downloads the confirmations file as CSV",
                "produces": ["text/csv"],
                "tags": ["admin"],
                "summary": "Export confirmations",
                "parameters": [
                    {"type": "string", "description": "Admin password", "name": "X-Admin-Password", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/admin/visits": {
            "get": {
                "description": "Registered visitors with their identity documents",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List visitors",
                "parameters": [
                    {"type": "string", "description": "Admin password", "name": "X-Admin-Password", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VisitsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "model.EventResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "date": {"type": "string"}, "location": {"type": "string"},
                "welcome": {"type": "string"}, "visitsEnabled": {"type": "boolean"}, "securityNotice": {"type": "string"},
                "prices": {"type": "object", "properties": {
                    "under5": {"type": "string", "example": "0.00"},
                    "from5To12": {"type": "string", "example": "37.50"},
                    "above12": {"type": "string", "example": "75.00"},
                    "maxPerCategory": {"type": "integer", "example": 10}
                }}
            }
        },
        "flow.GuestCounts": {
            "type": "object",
            "properties": {"under5": {"type": "integer"}, "from5To12": {"type": "integer"}, "above12": {"type": "integer"}}
        },
        "flow.State": {
            "type": "object",
            "properties": {
                "step": {"type": "string", "enum": ["verify", "guests", "payment", "done"]},
                "participant": {"type": "object", "properties": {
                    "id": {"type": "string"}, "fullName": {"type": "string"}, "maxCompanions": {"type": "integer"}
                }},
                "attending": {"type": "boolean"},
                "guests": {"$ref": "#/definitions/flow.GuestCounts"},
                "total": {"type": "string"}
            }
        },
        "model.StepRequest": {
            "type": "object",
            "properties": {
                "state": {"$ref": "#/definitions/flow.State"},
                "action": {"type": "string", "example": "verify"},
                "name": {"type": "string", "example": "Antonio Magno Lima Espeschit"},
                "guests": {"$ref": "#/definitions/flow.GuestCounts"}
            }
        },
        "model.StepResponse": {
            "type": "object",
            "properties": {
                "state": {"$ref": "#/definitions/flow.State"},
                "message": {"type": "string"},
                "totalDisplay": {"type": "string", "example": "R$ 112,50"},
                "breakdown": {"type": "array", "items": {"type": "object", "properties": {
                    "category": {"type": "string"}, "count": {"type": "integer"},
                    "unitPrice": {"type": "string"}, "subtotal": {"type": "string"}
                }}},
                "confirmation": {"$ref": "#/definitions/store.Confirmation"},
                "payment": {"type": "object", "properties": {
                    "code": {"type": "string"}, "qrCode": {"type": "string", "format": "base64"},
                    "amount": {"type": "string", "example": "75.00"}, "referenceTag": {"type": "string", "example": "ID42ID"}
                }}
            }
        },
        "store.Confirmation": {
            "type": "object",
            "properties": {
                "confirmationId": {"type": "string"}, "timestamp": {"type": "string"},
                "participantName": {"type": "string"}, "participantId": {"type": "string"},
                "guestsUnder5": {"type": "integer"}, "guests5To12": {"type": "integer"}, "guestsAbove12": {"type": "integer"},
                "totalAmount": {"type": "string"}, "paymentStatus": {"type": "string", "enum": ["pending", "free"]}
            }
        },
        "model.ConfirmationsResponse": {
            "type": "object",
            "properties": {
                "stats": {"type": "object", "properties": {
                    "confirmations": {"type": "integer"}, "people": {"type": "integer"},
                    "revenue": {"type": "string"}, "averageTicket": {"type": "string"}
                }},
                "confirmations": {"type": "array", "items": {"$ref": "#/definitions/store.Confirmation"}}
            }
        },
        "model.VisitPerson": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "document": {"type": "string", "example": "12.345.678-9"}}
        },
        "model.VisitRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "document": {"type": "string"},
                "companions": {"type": "array", "items": {"$ref": "#/definitions/model.VisitPerson"}}
            }
        },
        "model.VisitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}, "message": {"type": "string"},
                "visitId": {"type": "string"}, "visitors": {"type": "integer"}
            }
        },
        "model.VisitsResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "visits": {"type": "array", "items": {"type": "object", "properties": {
                    "visitId": {"type": "string"}, "timestamp": {"type": "string"},
                    "participantName": {"type": "string"}, "participantId": {"type": "string"},
                    "visitorName": {"type": "string"}, "relation": {"type": "string"}, "document": {"type": "string"}
                }}}
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
	Title:            "Event Registration API",
	Description:      "Attendance confirmation with PIX payment codes, visitor registration and admin exports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
