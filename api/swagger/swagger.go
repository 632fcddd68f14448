package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "IT-Ustoz API",
        "description": "Learning platform backend: courses, tasks, AI-graded submissions and course chat",
        "version": "0.1.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Users", "description": "Accounts and enrollments"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Tasks", "description": "Course assignments"},
        {"name": "Results", "description": "Graded submissions and exports"},
        {"name": "Requests", "description": "Enrollment requests"},
        {"name": "Chat", "description": "Course chat with AI tutor"},
        {"name": "Submissions", "description": "AI grading"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}}
                }
            }
        },
        "/users/{id}": {
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/users/{id}/courses/{courseId}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Unenroll user from course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/register_user": {
            "post": {
                "tags": ["Users"],
                "summary": "Register user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/recover_password": {
            "post": {
                "tags": ["Users"],
                "summary": "Recover password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/courses/{id}/results/export": {
            "get": {
                "tags": ["Results"],
                "summary": "Export grading matrix",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CourseTask"}}}
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/tasks/{id}/timer": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Start task timer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartTimerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "List results",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TaskResult"}}}
                }
            },
            "post": {
                "tags": ["Results"],
                "summary": "Store result",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskResult"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/results/{id}": {
            "patch": {
                "tags": ["Results"],
                "summary": "Override grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List enrollment requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/EnrollmentRequest"}}}
                }
            },
            "post": {
                "tags": ["Requests"],
                "summary": "File enrollment request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/requests/{id}/approve": {
            "post": {
                "tags": ["Requests"],
                "summary": "Approve enrollment request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/messages": {
            "get": {
                "tags": ["Chat"],
                "summary": "Course chat history",
                "parameters": [
                    {"name": "courseId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ChatMessage"}}}
                }
            },
            "post": {
                "tags": ["Chat"],
                "summary": "Post chat message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}}
                }
            }
        },
        "/submissions": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit answer for grading",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TaskResult"}}
                }
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "grade": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "admin", "parent"]},
                "enrolledCourses": {"type": "array", "items": {"type": "string"}},
                "avatar": {"type": "string"},
                "parentPhone": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "createdAt": {"type": "integer"}
            }
        },
        "CourseTask": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "courseId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "order": {"type": "integer"},
                "isClassTask": {"type": "boolean"},
                "timerEnd": {"type": "integer"},
                "validationCriteria": {"type": "string"}
            }
        },
        "TaskResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "taskId": {"type": "string"},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "courseId": {"type": "string"},
                "studentAnswer": {"type": "string"},
                "result": {"type": "string"},
                "errors": {"type": "string"},
                "solution": {"type": "string"},
                "explanation": {"type": "string"},
                "mistakePatterns": {"type": "array", "items": {"type": "string"}},
                "grade": {"type": "integer"},
                "adminGrade": {"type": "integer"},
                "cognitiveImpact": {"type": "integer"},
                "marketabilityBoost": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "reviewed", "fail"]},
                "timestamp": {"type": "integer"}
            }
        },
        "EnrollmentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "courseId": {"type": "string"},
                "courseTitle": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "ChatMessage": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "courseId": {"type": "string"},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "userAvatar": {"type": "string"},
                "text": {"type": "string"},
                "timestamp": {"type": "integer"}
            }
        },
        "RegisterUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "grade": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "parentPhone": {"type": "string"}
            },
            "required": ["username", "password", "firstName"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "grade": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "avatar": {"type": "string"},
                "parentPhone": {"type": "string"},
                "enrolledCourses": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["username", "firstName"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "secretKey": {"type": "string"}
            },
            "required": ["title", "subject", "teacher", "secretKey"]
        },
        "CreateTaskRequest": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "order": {"type": "integer"},
                "isClassTask": {"type": "boolean"},
                "validationCriteria": {"type": "string"}
            },
            "required": ["courseId", "title"]
        },
        "StartTimerRequest": {
            "type": "object",
            "properties": {
                "timerEnd": {"type": "integer"},
                "durationMinutes": {"type": "integer"}
            }
        },
        "UpdateGradeRequest": {
            "type": "object",
            "properties": {
                "adminGrade": {"type": "integer"}
            },
            "required": ["adminGrade"]
        },
        "CreateRequestRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "courseId": {"type": "string"},
                "secretKey": {"type": "string"}
            },
            "required": ["userId", "courseId", "secretKey"]
        },
        "SendMessageRequest": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "userId": {"type": "string"},
                "text": {"type": "string"}
            },
            "required": ["courseId", "userId", "text"]
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "taskId": {"type": "string"},
                "userId": {"type": "string"},
                "answer": {"type": "string"}
            },
            "required": ["taskId", "userId", "answer"]
        },
        "Ack": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
