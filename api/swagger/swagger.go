package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Interview Booking API",
        "description": "Employer availability resolution and interview booking engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Employer recurring and date-specific schedules"},
        {"name": "Availability", "description": "Resolved bookable slots"},
        {"name": "Interviews", "description": "Booking and lifecycle transitions"}
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
        "/employers/{employerId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get both schedule sources for an employer",
                "parameters": [
                    {"name": "employerId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No schedule configured"}
                }
            }
        },
        "/employers/{employerId}/schedule/recurring": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Replace the weekly recurring schedule",
                "parameters": [
                    {"name": "employerId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetRecurringRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/employers/{employerId}/schedule/specific": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Create or replace a date-specific entry",
                "parameters": [
                    {"name": "employerId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetSpecificRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/employers/{employerId}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Resolve bookable slots for a date range",
                "parameters": [
                    {"name": "employerId", "in": "path", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string", "required": true},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No schedule configured"}
                }
            }
        },
        "/employers/{employerId}/interviews/export": {
            "get": {
                "tags": ["Interviews"],
                "summary": "Export interviews for a date range",
                "parameters": [
                    {"name": "employerId", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "from", "in": "query", "type": "string", "required": true},
                    {"name": "to", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Rendered document"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/interviews": {
            "get": {
                "tags": ["Interviews"],
                "summary": "List interviews",
                "parameters": [
                    {"name": "employerId", "in": "query", "type": "string"},
                    {"name": "jobseekerId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Interviews"],
                "summary": "Request a booking",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Interview created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Application not found"},
                    "409": {"description": "Slot unavailable"}
                }
            }
        },
        "/interviews/{id}": {
            "get": {
                "tags": ["Interviews"],
                "summary": "Get an interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/interviews/{id}/confirm": {
            "post": {
                "tags": ["Interviews"],
                "summary": "Confirm a pending interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/interviews/{id}/cancel": {
            "post": {
                "tags": ["Interviews"],
                "summary": "Cancel a pending or scheduled interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CancelRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/interviews/{id}/reschedule": {
            "post": {
                "tags": ["Interviews"],
                "summary": "Move a cancelled interview to a new slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot unavailable or invalid transition"}
                }
            }
        },
        "/interviews/{id}/complete": {
            "post": {
                "tags": ["Interviews"],
                "summary": "Complete a scheduled interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition"}
                }
            }
        }
    },
    "definitions": {
        "TimeSlot": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "09:50"},
                "is_booked": {"type": "boolean"}
            }
        },
        "SetRecurringRequest": {
            "type": "object",
            "properties": {
                "days": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "day": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"]},
                            "status": {"type": "string", "enum": ["ACTIVE", "INACTIVE"]},
                            "slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
                        }
                    }
                },
                "effective_from": {"type": "string", "example": "2026-09-01"},
                "effective_until": {"type": "string"}
            }
        },
        "SetSpecificRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-09-07"},
                "status": {"type": "string", "enum": ["ACTIVE", "INACTIVE"]},
                "time_slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            }
        },
        "BookingRequest": {
            "type": "object",
            "properties": {
                "employer_id": {"type": "string"},
                "jobseeker_id": {"type": "string"},
                "job_id": {"type": "string"},
                "application_id": {"type": "string"},
                "date": {"type": "string", "example": "2026-09-07"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "09:50"}
            }
        },
        "CancelRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "additional_info": {"type": "string"}
            }
        },
        "RescheduleRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "CompleteRequest": {
            "type": "object",
            "properties": {
                "result": {"type": "string", "enum": ["HIRED", "REJECTED"]},
                "feedback": {"type": "string"}
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
