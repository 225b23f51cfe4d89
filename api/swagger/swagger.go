package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Slotwatch Central API",
        "description": "Central coordination backend for driving-test slot monitoring",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Tasks", "description": "Task lifecycle"},
        {"name": "Enrollments", "description": "Operator-facing enrollment listings"},
        {"name": "Reports", "description": "Agent slot reports"},
        {"name": "Config", "description": "Agent configuration resolution"}
    ],
    "paths": {
        "/healthz": {
            "get": {
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/api/enroll": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Enroll a student for slot monitoring",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK (body carries ok/error status)"}
                }
            }
        },
        "/api/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks for a school",
                "parameters": [
                    {"name": "school_id", "in": "query", "required": true, "type": "string"},
                    {"name": "since", "in": "query", "type": "string", "description": "RFC3339 lower bound on creation time"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Get task detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Task not found"}
                }
            },
            "put": {
                "tags": ["Tasks"],
                "summary": "Administrative status override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Task not found"}
                }
            }
        },
        "/api/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Apply an agent report to its task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Acknowledged", "schema": {"$ref": "#/definitions/ReportAck"}}
                }
            }
        },
        "/api/config": {
            "get": {
                "tags": ["Config"],
                "summary": "Resolve effective agent configuration",
                "parameters": [
                    {"name": "school_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Effective configuration payload"}
                }
            }
        },
        "/api/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Paginated enrollment listing",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "max 1000, default 100"},
                    {"name": "offset", "in": "query", "type": "integer", "description": "default 0"},
                    {"name": "school_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/enrollments/search": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Search enrollments by email, phone or school",
                "parameters": [
                    {"name": "email", "in": "query", "type": "string"},
                    {"name": "phone", "in": "query", "type": "string"},
                    {"name": "school_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No search criterion given"}
                }
            }
        },
        "/api/enrollments/export": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Export enrollments as CSV or PDF",
                "parameters": [
                    {"name": "school_id", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "description": "csv (default) or pdf"}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/api/stats": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Task counts by status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "school_id": {"type": "string"},
                "student": {"type": "object"},
                "preferences": {"$ref": "#/definitions/SchedulingPreferences"},
                "consent_timestamp": {"type": "string"}
            },
            "required": ["school_id", "student", "preferences", "consent_timestamp"]
        },
        "SchedulingPreferences": {
            "type": "object",
            "properties": {
                "centre": {"type": "string"},
                "date_start": {"type": "string"},
                "date_end": {"type": "string"},
                "days_of_week": {"type": "array", "items": {"type": "string"}},
                "time_of_day": {"type": "string"}
            },
            "required": ["centre", "date_start", "date_end", "days_of_week"]
        },
        "UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "processing", "completed", "failed"]},
                "progress": {"type": "integer", "minimum": 0, "maximum": 100},
                "message": {"type": "string"}
            },
            "required": ["status", "progress"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "task_id": {"type": "integer"},
                "school_id": {"type": "string"},
                "detected_at": {"type": "string"},
                "slots_found": {"type": "array", "items": {"type": "object"}},
                "agent_meta": {"type": "object"}
            },
            "required": ["task_id", "school_id", "detected_at"]
        },
        "ReportAck": {
            "type": "object",
            "properties": {
                "receipt_id": {"type": "string"},
                "task_id": {"type": "integer"},
                "slots_found": {"type": "integer"},
                "applied": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
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
