package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Harmonia Agenda API",
        "description": "Class scheduling, conflict detection and slot recommendation",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduling", "description": "Conflict validation and slot recommendation"},
        {"name": "Units", "description": "Rooms and operating hours"},
        {"name": "Exports", "description": "Timetable downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/classes/validate": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Validate a class placement against the unit's schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/classes": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "List class sessions",
                "parameters": [
                    {"name": "unitId", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scheduling"],
                "summary": "Create a class session after validating its placement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocking conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/classes/{id}": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Get class session detail",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Scheduling"],
                "summary": "Deactivate a class session",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/rooms": {
            "get": {
                "tags": ["Units"],
                "summary": "List the rooms of a unit",
                "parameters": [
                    {"name": "unitId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Units"],
                "summary": "Register a room at a unit",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/units/{unitId}/hours": {
            "get": {
                "tags": ["Units"],
                "summary": "Operating hours of a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Units"],
                "summary": "Replace the operating hours of a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetHoursRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/suggestions": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Recommend open slots for a new class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuggestSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/weekly": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Weekly timetable for a unit",
                "parameters": [
                    {"name": "unitId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the weekly timetable of a unit",
                "parameters": [
                    {"name": "unitId", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "ValidateSessionRequest": {
            "type": "object",
            "required": ["unitId", "teacherId", "dayOfWeek", "startTime", "endTime"],
            "properties": {
                "sessionId": {"type": "string"},
                "unitId": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"},
                "dayOfWeek": {"type": "string", "example": "monday"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "studentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "required": ["unitId", "name", "teacherId", "dayOfWeek", "startTime", "endTime", "capacity"],
            "properties": {
                "unitId": {"type": "string"},
                "name": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"},
                "courseId": {"type": "string"},
                "dayOfWeek": {"type": "string", "example": "monday"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "capacity": {"type": "integer"},
                "studentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SuggestSlotsRequest": {
            "type": "object",
            "required": ["unitId", "teacherId", "durationMinutes"],
            "properties": {
                "unitId": {"type": "string"},
                "teacherId": {"type": "string"},
                "courseId": {"type": "string"},
                "durationMinutes": {"type": "integer", "example": 60},
                "preferredRoomType": {"type": "string", "example": "piano"},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "limit": {"type": "integer", "example": 5}
            }
        },
        "CreateRoomRequest": {
            "type": "object",
            "required": ["unitId", "name", "capacity"],
            "properties": {
                "unitId": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "roomType": {"type": "string", "example": "piano"},
                "joker": {"type": "boolean"}
            }
        },
        "HoursWindow": {
            "type": "object",
            "required": ["open", "close"],
            "properties": {
                "open": {"type": "string", "example": "08:00"},
                "close": {"type": "string", "example": "21:00"}
            }
        },
        "SetHoursRequest": {
            "type": "object",
            "properties": {
                "weekdays": {"$ref": "#/definitions/HoursWindow"},
                "saturday": {"$ref": "#/definitions/HoursWindow"},
                "sunday": {"$ref": "#/definitions/HoursWindow"}
            }
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["room", "teacher", "student", "operating_hours", "capacity"]},
                "severity": {"type": "string", "enum": ["error", "warning"]},
                "message": {"type": "string"},
                "detail": {"type": "string"},
                "sessionIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Suggestion": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "roomId": {"type": "string"},
                "roomName": {"type": "string"},
                "score": {"type": "integer"},
                "reasons": {"type": "array", "items": {"type": "string"}},
                "caveats": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
