package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quizwire/server/internal/boardgen"
	"github.com/quizwire/server/internal/models"
	"github.com/quizwire/server/internal/registry"
)

const generateTimeout = 90 * time.Second

// Notifier is told when a room's board changes outside the socket
// command path so connected clients get a fresh snapshot.
type Notifier interface {
	BoardLoaded(roomCode string)
}

// Handler serves the REST surface: health, board generation, and board
// upload/inspection.
type Handler struct {
	registry  *registry.Registry
	generator *boardgen.Generator
	notifier  Notifier
}

// NewHandler creates the REST handler. notifier may be nil.
func NewHandler(reg *registry.Registry, gen *boardgen.Generator, notifier Notifier) *Handler {
	return &Handler{registry: reg, generator: gen, notifier: notifier}
}

// RegisterRoutes registers all REST routes with an HTTP mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/board/generate", h.handleGenerate)
	mux.HandleFunc("/api/board/sample", h.handleSample)
	mux.HandleFunc("/api/board/", h.handleRoomBoard)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rooms":  h.registry.RoomCount(),
	})
}

type generateRequest struct {
	RoomCode     string   `json:"roomCode"`
	Difficulty   string   `json:"difficulty"`
	Categories   []string `json:"categories"`
	CustomPrompt string   `json:"customPrompt"`
}

type boardResponse struct {
	GameTitle  string        `json:"gameTitle,omitempty"`
	Difficulty string        `json:"difficulty,omitempty"`
	Fallback   bool          `json:"fallback,omitempty"`
	Board      *models.Board `json:"board"`
}

// handleGenerate produces a new board from the content provider. When a
// room code is supplied the board is installed into that room as well.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "board generation is not configured")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	result, err := h.generator.Generate(ctx, boardgen.GenerateRequest{
		Difficulty:   req.Difficulty,
		Categories:   req.Categories,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		log.Error().Err(err).Msg("board generation failed")
		writeError(w, http.StatusBadGateway, "board generation failed")
		return
	}

	if req.RoomCode != "" {
		if !h.installBoard(w, req.RoomCode, result.Board) {
			return
		}
	}

	writeJSON(w, http.StatusOK, boardResponse{
		GameTitle:  result.GameTitle,
		Difficulty: result.Difficulty,
		Fallback:   result.Fallback,
		Board:      result.Board,
	})
}

type sampleRequest struct {
	RoomCode string `json:"roomCode"`
}

// handleSample returns the bundled sample board, optionally installing
// it into a room.
func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req sampleRequest
	if r.Body != nil {
		// An empty body means no target room.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sample := boardgen.SampleBoard()
	board := boardgen.ToBoard(sample)

	if req.RoomCode != "" {
		if !h.installBoard(w, req.RoomCode, board) {
			return
		}
	}

	writeJSON(w, http.StatusOK, boardResponse{
		GameTitle:  sample.GameTitle,
		Difficulty: sample.Difficulty,
		Board:      board,
	})
}

// handleRoomBoard serves GET and PUT on /api/board/{roomCode}.
func (h *Handler) handleRoomBoard(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/board/"))
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		room, ok := h.registry.GetRoom(code)
		if !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeJSON(w, http.StatusOK, boardResponse{Board: room.Board})

	case http.MethodPut:
		var provider boardgen.ProviderBoard
		if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := boardgen.Validate(&provider); err != nil {
			writeError(w, http.StatusBadRequest, "invalid board: "+err.Error())
			return
		}
		board := boardgen.ToBoard(&provider)
		if !h.installBoard(w, code, board) {
			return
		}
		writeJSON(w, http.StatusOK, boardResponse{
			GameTitle:  provider.GameTitle,
			Difficulty: provider.Difficulty,
			Board:      board,
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) installBoard(w http.ResponseWriter, code string, board *models.Board) bool {
	if err := h.registry.SetBoard(code, board); err != nil {
		if errors.Is(err, registry.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
		} else {
			log.Error().Err(err).Str("room_code", code).Msg("failed to install board")
			writeError(w, http.StatusInternalServerError, "failed to install board")
		}
		return false
	}
	log.Info().Str("room_code", code).Msg("board installed into room")
	if h.notifier != nil {
		h.notifier.BoardLoaded(code)
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
