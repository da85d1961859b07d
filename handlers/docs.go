package handlers

import "net/http"

// openAPIDoc is the API description served to the Swagger UI. Maintained by
// hand; regenerate-by-tooling is not worth it for a surface this small.
const openAPIDoc = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Tournament Prediction Engine",
    "description": "Turns submitted match scores into standings, gates stage advancement, generates knockout fixtures and resolves a champion.",
    "version": "1.0.0"
  },
  "paths": {
    "/tournaments": {
      "post": {
        "summary": "Create a tournament from the configured template",
        "requestBody": {"content": {"application/json": {"schema": {"type": "object", "required": ["tournament_id"], "properties": {"tournament_id": {"type": "string"}}}}}},
        "responses": {"201": {"description": "Initial snapshot"}, "409": {"description": "Tournament already exists"}}
      }
    },
    "/tournaments/{tournamentID}": {
      "get": {
        "summary": "Current tournament snapshot",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "Snapshot"}, "404": {"description": "Unknown tournament"}}
      },
      "put": {
        "summary": "Import an externally cached snapshot (revalidated before storing)",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "Stored snapshot"}, "422": {"description": "Malformed state"}}
      }
    },
    "/tournaments/{tournamentID}/results": {
      "post": {
        "summary": "Submit or correct a match result",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"content": {"application/json": {"schema": {"type": "object", "required": ["match_id", "score_a", "score_b"], "properties": {"match_id": {"type": "string"}, "score_a": {"type": "integer", "minimum": 0}, "score_b": {"type": "integer", "minimum": 0}, "penalty_winner": {"type": "string"}}}}}},
        "responses": {"200": {"description": "Updated snapshot"}, "400": {"description": "Invalid score or missing penalty winner"}, "404": {"description": "Unknown match"}, "409": {"description": "Stage closed"}}
      }
    },
    "/tournaments/{tournamentID}/advance": {
      "post": {
        "summary": "Advance from a completed stage (playoffs, groups, r32, r16, qf, sf)",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {"content": {"application/json": {"schema": {"type": "object", "required": ["from_stage"], "properties": {"from_stage": {"type": "string", "enum": ["playoffs", "groups", "r32", "r16", "qf", "sf"]}}}}}},
        "responses": {"200": {"description": "Updated snapshot"}, "409": {"description": "Stage incomplete or already consumed"}}
      }
    },
    "/tournaments/{tournamentID}/groups/{groupID}/standings": {
      "get": {
        "summary": "Ordered standing rows for one group",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}, {"name": "groupID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "Standings"}, "404": {"description": "Unknown group"}}
      }
    },
    "/tournaments/{tournamentID}/third-places": {
      "get": {
        "summary": "Cross-group ranking of third-placed teams",
        "parameters": [{"name": "tournamentID", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "Ranking"}}
      }
    }
  }
}`

// ServeOpenAPIDoc serves the OpenAPI document consumed by the Swagger UI.
func ServeOpenAPIDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(openAPIDoc))
}
