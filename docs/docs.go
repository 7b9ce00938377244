package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Shared family calendar for Bruno coverage planning",
        "title": "Bruno Kalender API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/data": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get calendar record",
                "description": "Returns the shared calendar blob, default-empty shape if absent. Entries older than the retention window are pruned on load.",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "The calendar record"
                    }
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Replace calendar record",
                "description": "Overwrites the whole stored blob. Last write wins.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "record",
                        "description": "The full calendar record",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "dates": {"type": "array", "items": {"type": "string"}},
                                "leaRequests": {"type": "array", "items": {"type": "object"}},
                                "betreuungEntries": {"type": "array", "items": {"type": "object"}},
                                "participants": {"type": "array", "items": {"type": "object"}}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Saved"
                    },
                    "500": {
                        "description": "Save failed"
                    }
                }
            }
        },
        "/data/dates/toggle": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Toggle a coverage date",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "date",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "date": {"type": "string", "example": "2026-09-15"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Updated record"},
                    "400": {"description": "Invalid date"}
                }
            }
        },
        "/data/lea-requests/claim": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Claim or release a help request",
                "description": "First claim wins; claiming one's own claim again releases it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "claim",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "date": {"type": "string", "example": "2026-09-15"},
                                "helper": {"type": "string", "example": "Katja"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Updated record"},
                    "404": {"description": "No request for that date"}
                }
            }
        },
        "/auth": {
            "get": {
                "tags": ["Auth"],
                "summary": "Password check or login audit",
                "description": "With ?name=X returns {hasPassword}; with ?action=logins returns the audit log oldest first.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Result"},
                    "400": {"description": "Name missing"}
                }
            },
            "post": {
                "tags": ["Auth"],
                "summary": "Set or verify password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "name": {"type": "string", "example": "Katja"},
                                "password": {"type": "string", "example": "geheim"},
                                "isFirstTime": {"type": "boolean", "example": false}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Success"},
                    "400": {"description": "Missing fields or password already set"},
                    "401": {"description": "Wrong password"}
                }
            }
        },
        "/reset": {
            "get": {
                "tags": ["Admin"],
                "summary": "Reset the calendar record",
                "responses": {
                    "200": {"description": "Record cleared"}
                }
            }
        },
        "/reset-all": {
            "get": {
                "tags": ["Admin"],
                "summary": "Reset record and credentials",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Everything cleared"}
                }
            }
        },
        "/cleanup": {
            "get": {
                "tags": ["Admin"],
                "summary": "Remove one person's entries and claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Cleanup counts"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and the session token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Bruno Kalender API",
	Description:      "Shared family calendar for Bruno coverage planning",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
