package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/services"
	"github.com/archassist/archgames-backend/internal/store"
	"github.com/archassist/archgames-backend/internal/types"
)

type LogicGameHandler struct {
	log     *logger.Logger
	gameSvc services.LogicGameService
}

func NewLogicGameHandler(log *logger.Logger, gameSvc services.LogicGameService) *LogicGameHandler {
	return &LogicGameHandler{
		log:     log.With("handler", "LogicGameHandler"),
		gameSvc: gameSvc,
	}
}

type CreateGameRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

type SubmitAnswerRequest struct {
	Answer interface{} `json:"answer"`
}

// POST /api/games/logic
// Create a round. Generator trouble never surfaces here; the service always
// hands back a playable circuit.
func (h *LogicGameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	difficulty, err := types.ParseDifficulty(req.Difficulty)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_difficulty", err)
		return
	}

	view, err := h.gameSvc.CreateGame(c.Request.Context(), difficulty)
	if err != nil {
		h.log.Error("Failed to create logic game", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_failed", errors.New("failed to create game"))
		return
	}
	RespondCreated(c, view)
}

// GET /api/games/logic/:id
func (h *LogicGameHandler) GetGame(c *gin.Context) {
	view, err := h.gameSvc.GetGame(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrSessionNotFound) {
		RespondError(c, http.StatusNotFound, "game_not_found", err)
		return
	}
	if err != nil {
		h.log.Error("Failed to load logic game", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_failed", errors.New("failed to load game"))
		return
	}
	RespondOK(c, view)
}

// POST /api/games/logic/:id/answer
// Only an undecodable body is a 400. A wrong-shaped answer inside valid JSON
// is a legitimate game move and flows through the evaluator's tolerant path.
func (h *LogicGameHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	view, err := h.gameSvc.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Answer)
	if errors.Is(err, store.ErrSessionNotFound) {
		RespondError(c, http.StatusNotFound, "game_not_found", err)
		return
	}
	if err != nil {
		h.log.Error("Failed to evaluate answer", "error", err)
		RespondError(c, http.StatusInternalServerError, "answer_failed", errors.New("failed to evaluate answer"))
		return
	}
	RespondOK(c, view)
}
