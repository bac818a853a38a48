// Package docs registers the OpenAPI description served at /swagger. It follows
// the layout swag init emits; keep it in step with the handler annotations.
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
        "/leaderboard/{gameKind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Ranks every score from lobbies of the given game kind, one entry per user.",
                "produces": ["application/json"],
                "tags": ["scores"],
                "summary": "Global leaderboard for a game kind",
                "parameters": [
                    {"type": "string", "description": "Game kind", "name": "gameKind", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "description": "Maximum entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LeaderboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Gets a paginated list of lobbies owned by the calling teacher, newest first.",
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "List the caller's lobbies",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PaginatedResponse-models_Lobby"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a new game lobby owned by the calling teacher and assigns a join code.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "Create a new lobby",
                "parameters": [
                    {"description": "Lobby Info", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LobbyInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Lobby"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Teacher access required", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Joins the lobby whose join code matches. Codes are case-insensitive.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "Join a lobby by code",
                "parameters": [
                    {"description": "Join code", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.JoinByCodeInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Participant"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Lobby is full or completed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Gets a lobby with participant counts. Only the owner and participants may view it.",
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "Get a lobby by ID",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LobbyResponse"}},
                    "403": {"description": "Not a member of this lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes the lobby together with its participants and scores.",
                "tags": ["lobbies"],
                "summary": "Delete a lobby (Owner only)",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Only the owner can delete the lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/all-ready": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reports whether every participant is ready. A lobby with no participants is never all-ready.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Lobby ready summary",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AllReadyResponse"}},
                    "403": {"description": "Not a member of this lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Joins a lobby by ID. Joining a lobby the caller is already in returns the existing membership.",
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "Join a lobby",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Participant"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Lobby is full or completed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/participants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists participants in join order with their ready flags.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "List a lobby's participants",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Participant"}}},
                    "403": {"description": "Not a member of this lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/participants/{participantID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes a participant from the lobby and broadcasts participant_removed with the new all-ready state. Their scores are kept.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Remove a participant (Owner only)",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Participant ID", "name": "participantID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "{\"message\": \"Participant removed\"}", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Only the owner can remove participants", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby or participant not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/qrcode": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Renders the lobby's join code as a PNG QR code for projecting in class.",
                "produces": ["image/png"],
                "tags": ["lobbies"],
                "summary": "Join code as a QR image (Owner only)",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 256, "description": "Image size in pixels", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Only the owner can fetch the QR code", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/ready": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Sets the caller's ready flag and broadcasts ready_status_updated to every connection in the lobby.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Toggle the caller's ready flag",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true},
                    {"description": "Ready flag", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ReadyInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ReadyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Caller is not a participant", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/scores": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Ranks the lobby's scores keeping each user's best. Without a limit every user is listed.",
                "produces": ["application/json"],
                "tags": ["scores"],
                "summary": "Lobby leaderboard",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LeaderboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Not a member of this lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/lobbies/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Marks a lobby active or completed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lobbies"],
                "summary": "Change a lobby's status (Owner only)",
                "parameters": [
                    {"type": "integer", "description": "Lobby ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LobbyStatusInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Lobby"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Only the owner can change the status", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/scores": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Records a score for the caller in a lobby they belong to. A score that does not beat the caller's current best is not stored; the existing best is returned instead.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scores"],
                "summary": "Submit a score",
                "parameters": [
                    {"description": "Score", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ScoreInput"}}
                ],
                "responses": {
                    "200": {"description": "Existing best kept", "schema": {"$ref": "#/definitions/handler.ScoreResponse"}},
                    "201": {"description": "New best stored", "schema": {"$ref": "#/definitions/handler.ScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Not a member of this lobby", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Lobby not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/scores/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Hard deletes one score row from a lobby the caller owns.",
                "tags": ["scores"],
                "summary": "Delete a score (Owner only)",
                "parameters": [
                    {"type": "integer", "description": "Score ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Only the owner can delete scores", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Score not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.AllReadyResponse": {
            "type": "object",
            "properties": {
                "allReady": {"type": "boolean"},
                "isFull": {"type": "boolean"},
                "participantCount": {"type": "integer"},
                "readyCount": {"type": "integer"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "An error message"}
            }
        },
        "handler.JoinByCodeInput": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string", "example": "K7QX2M"}
            }
        },
        "handler.LeaderboardResponse": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/ranking.Entry"}}
            }
        },
        "handler.LobbyInput": {
            "type": "object",
            "required": ["gameKind", "title"],
            "properties": {
                "gameKind": {"type": "string", "maxLength": 64, "example": "true_false"},
                "maxParticipants": {"type": "integer", "maximum": 500, "minimum": 1, "example": 30},
                "title": {"type": "string", "maxLength": 255, "example": "Fractions warm-up"}
            }
        },
        "handler.LobbyResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "gameKind": {"type": "string"},
                "id": {"type": "integer"},
                "joinCode": {"type": "string"},
                "maxParticipants": {"type": "integer"},
                "ownerId": {"type": "integer"},
                "participantCount": {"type": "integer"},
                "readyCount": {"type": "integer"},
                "status": {"$ref": "#/definitions/models.LobbyStatus"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.LobbyStatusInput": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"allOf": [{"$ref": "#/definitions/models.LobbyStatus"}], "example": "completed"}
            }
        },
        "handler.PaginatedResponse-models_Lobby": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Lobby"}},
                "meta": {"$ref": "#/definitions/handler.PaginationMeta"}
            }
        },
        "handler.PaginationMeta": {
            "type": "object",
            "properties": {
                "current_page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "handler.ReadyInput": {
            "type": "object",
            "required": ["isReady"],
            "properties": {
                "isReady": {"type": "boolean", "example": true}
            }
        },
        "handler.ReadyResponse": {
            "type": "object",
            "properties": {
                "allReady": {"type": "boolean"},
                "participant": {"$ref": "#/definitions/models.Participant"}
            }
        },
        "handler.ScoreInput": {
            "type": "object",
            "required": ["lobbyId", "score"],
            "properties": {
                "completionTime": {"type": "number", "minimum": 0, "example": 42.5},
                "lobbyId": {"type": "integer", "example": 3},
                "score": {"type": "integer", "example": 850}
            }
        },
        "handler.ScoreResponse": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "score": {"$ref": "#/definitions/models.Score"}
            }
        },
        "models.Lobby": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "gameKind": {"type": "string"},
                "id": {"type": "integer"},
                "joinCode": {"type": "string"},
                "maxParticipants": {"type": "integer"},
                "ownerId": {"type": "integer"},
                "status": {"$ref": "#/definitions/models.LobbyStatus"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.LobbyStatus": {
            "type": "string",
            "enum": ["active", "completed"],
            "x-enum-varnames": ["LobbyStatusActive", "LobbyStatusCompleted"]
        },
        "models.Participant": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "isReady": {"type": "boolean"},
                "joinedAt": {"type": "string"},
                "lobbyId": {"type": "integer"},
                "userId": {"type": "integer"}
            }
        },
        "models.Score": {
            "type": "object",
            "properties": {
                "completionTime": {"description": "seconds", "type": "number"},
                "id": {"type": "integer"},
                "lobbyId": {"type": "integer"},
                "score": {"type": "integer"},
                "submittedAt": {"type": "string"},
                "userId": {"type": "integer"}
            }
        },
        "ranking.Entry": {
            "type": "object",
            "properties": {
                "completionTime": {"type": "number"},
                "lobbyId": {"type": "integer"},
                "rank": {"type": "integer"},
                "score": {"type": "integer"},
                "scoreId": {"type": "integer"},
                "submittedAt": {"type": "string"},
                "userId": {"type": "integer"}
            }
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
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "EduGame Lobby API",
	Description:      "Lobby coordination, ready protocol and leaderboards for classroom mini-games.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
