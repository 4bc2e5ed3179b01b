// Package docs holds the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service greeting",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.aliveResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Email and password", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.detailResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.detailResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/token": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Obtain an access token",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/confirm/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Confirm an email address",
                "parameters": [
                    {"type": "string", "description": "Confirmation token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.detailResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/confirm/resend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Re-send the confirmation email",
                "parameters": [
                    {"description": "Email", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.resendConfirmationRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.detailResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/post": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "string", "enum": ["new", "old", "most_likes"], "description": "new (default), old or most_likes",
                     "name": "sorting", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PostWithLikes"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"type": "string", "description": "Image generation prompt", "name": "prompt", "in": "query"},
                    {"description": "Post content", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.createPostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/post/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PostWithComments"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/post/{id}/comment": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List comments on a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}}}
                }
            }
        },
        "/comment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Comment on a post",
                "parameters": [
                    {"description": "Comment", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.createCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Comment"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/like": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Like a post",
                "parameters": [
                    {"description": "Post to like", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.likeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Like"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.uploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.detailResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.detailResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "post_id": {"type": "integer"},
                "user_id": {"type": "string"},
                "body": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Like": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "post_id": {"type": "integer"},
                "user_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "string"},
                "body": {"type": "string"},
                "image_url": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.PostWithLikes": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "string"},
                "body": {"type": "string"},
                "image_url": {"type": "string"},
                "created_at": {"type": "string"},
                "likes": {"type": "integer"}
            }
        },
        "domain.PostWithComments": {
            "type": "object",
            "properties": {
                "post": {"$ref": "#/definitions/domain.PostWithLikes"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}}
            }
        },
        "handler.aliveResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.detailResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string"}}
        },
        "handler.resendConfirmationRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "handler.createPostRequest": {
            "type": "object",
            "required": ["body"],
            "properties": {"body": {"type": "string"}}
        },
        "handler.createCommentRequest": {
            "type": "object",
            "required": ["body", "post_id"],
            "properties": {"body": {"type": "string"}, "post_id": {"type": "integer"}}
        },
        "handler.likeRequest": {
            "type": "object",
            "required": ["post_id"],
            "properties": {"post_id": {"type": "integer"}}
        },
        "handler.uploadResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string"}, "file_url": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Social API",
	Description:      "Posts, comments and likes with email-confirmed accounts and generated post images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
