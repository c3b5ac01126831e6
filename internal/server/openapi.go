package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/jwold/trailblazerstrivia/internal/session"
	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency name to its status.
type HealthResponse map[string]struct {
	Status    string `json:"status" enum:"ok,degraded,error"`
	LatencyMS int64  `json:"latency_ms"`
}

type gameCodePath struct {
	Code string `path:"code" description:"Six character game code, case-insensitive."`
}

type questionPath struct {
	Code       string `path:"code"`
	Difficulty string `path:"difficulty" enum:"Easy,Hard" description:"Case-insensitive. Difficult is accepted for Hard."`
}

type qrQuery struct {
	Code string `path:"code"`
	Size int    `query:"size" minimum:"128" maximum:"1024" default:"320"`
}

type patchRequest struct {
	gameCodePath
	trivia.Patch
}

type actionRequest struct {
	gameCodePath
	session.ActionRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Trailblazers Trivia API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Turn-based team trivia: game sessions, scoring and question draws.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Starts a game. Team ids, names and colours are filled in when blank and a random team goes first.")
	createGame.AddReqStructure(trivia.Setup{})
	createGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// GET /api/games/{code}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the full session. Clients poll this about once a second.")
	getGame.AddReqStructure(gameCodePath{})
	getGame.AddRespStructure(trivia.Session{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// PUT and PATCH /api/games/{code}
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		update, _ := r.NewOperationContext(method, "/api/games/{code}")
		update.SetSummary("Update game")
		update.SetDescription("Merges a partial session computed by the client. A finished game cannot be resumed. Sending currentTeamIndex as null clears it, except for a regular game in play.")
		update.AddReqStructure(patchRequest{})
		update.AddRespStructure(trivia.Session{}, openapi.WithHTTPStatus(http.StatusOK))
		update.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		update.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(update)
	}

	// DELETE /api/games/{code}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{code}")
	deleteGame.SetSummary("Delete game")
	deleteGame.AddReqStructure(gameCodePath{})
	deleteGame.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// GET /api/games/{code}/question/{difficulty}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/question/{difficulty}")
	getQuestion.SetSummary("Draw question")
	getQuestion.SetDescription("Draws a random question from the game's category that has not been played yet. Returns 204 when none are left.")
	getQuestion.AddReqStructure(questionPath{})
	getQuestion.AddRespStructure(trivia.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQuestion)

	// POST /api/games/{code}/actions
	postAction, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/actions")
	postAction.SetSummary("Apply action")
	postAction.SetDescription("Runs one game action (markCorrect, markIncorrect, markTeamCorrect, skipQuestion, editHistoryEntry, renameTeam, endGame) and returns the new session.")
	postAction.AddReqStructure(actionRequest{})
	postAction.AddRespStructure(trivia.Session{}, openapi.WithHTTPStatus(http.StatusOK))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAction)

	// GET /api/games/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of session snapshots, starting with the current state.")
	getEvents.AddReqStructure(gameCodePath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{code}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/ws")
	getWS.SetSummary("WebSocket snapshot stream")
	getWS.SetDescription("Upgrades to a WebSocket that receives the same events as the SSE stream.")
	getWS.AddReqStructure(gameCodePath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/games/{code}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/qr")
	getQR.SetSummary("Join QR code")
	getQR.SetDescription("PNG QR code linking to the game's join page.")
	getQR.AddReqStructure(qrQuery{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// GET /api/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.AddRespStructure([]trivia.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listQuestions)

	// GET /api/categories
	listCategories, _ := r.NewOperationContext(http.MethodGet, "/api/categories")
	listCategories.SetSummary("List categories")
	listCategories.SetDescription("Question counts per category and difficulty.")
	listCategories.AddRespStructure([]trivia.CategoryStats{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listCategories)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
