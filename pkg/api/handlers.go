package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/yourusername/trailbot/pkg/engine"
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine      *engine.Engine
	version     string
	pool        *WorkerPool
	logger      log.Logger
	participant string
	agentName   string
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return NewHandlersWithPool(e, version, nil)
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:      e,
		version:     version,
		pool:        pool,
		logger:      log.NewNopLogger(),
		participant: "trailbot",
		agentName:   "trailbot",
	}
}

// SetLogger replaces the handler logger. The default discards everything.
func (h *Handlers) SetLogger(l log.Logger) {
	if l != nil {
		h.logger = l
	}
}

// SetIdentity sets the participant and agent names reported by Info.
func (h *Handlers) SetIdentity(participant, agentName string) {
	if participant != "" {
		h.participant = participant
	}
	if agentName != "" {
		h.agentName = agentName
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// decodeBody decodes a JSON request body into v. An empty body is reported
// as errEmptyBody so callers can decide whether to tolerate it.
var errEmptyBody = errors.New("empty request body")

func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return errEmptyBody
	}
	return err
}

// playerNumber extracts a player number from a query parameter, defaulting
// to 1 when absent.
func playerNumber(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("player_number")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Info handles GET / and identifies the bot.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Participant: h.participant,
		AgentName:   h.agentName,
	})
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.engine != nil {
		cache := h.engine.CacheStats()
		resp.Cache = &cache
	}

	writeJSON(w, http.StatusOK, resp)
}

// State handles POST /api/state (alias /send-state). It ingests the game
// master's snapshot. A missing or unreadable body is rejected without
// touching engine state.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireMove(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseMove()
	}

	var req StateSyncRequest
	if err := decodeBody(r, &req); err != nil {
		if err == errEmptyBody {
			writeError(w, http.StatusBadRequest, "request body is required", "MISSING_BODY")
		} else {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		}
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "state payload carries no fields", "MISSING_BODY")
		return
	}

	h.engine.SyncState(req.MatchID, req.ToUpdate())
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Move handles GET /api/move (alias /send-move). It returns the chosen
// direction for the requesting player based on the last synced state.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireMove(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseMove()
	}

	player, err := playerNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_number", "INVALID_PLAYER")
		return
	}

	matchID := r.URL.Query().Get("match_id")
	d := h.engine.Decide(matchID, player)

	level.Debug(h.logger).Log("msg", "move served", "player", player, "move", d.Move(), "phase", d.Phase.String())
	writeJSON(w, http.StatusOK, DecisionToResponse(d))
}

// End handles POST /api/end (alias /end). It applies the final snapshot if
// one was sent, logs the outcome, and resets per-match decision state so the
// next match starts clean.
func (h *Handlers) End(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if err := decodeBody(r, &req); err != nil && err != errEmptyBody {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	var final *engine.StateUpdate
	matchID := req.MatchID
	if req.Final != nil {
		u := req.Final.ToUpdate()
		final = &u
		if matchID == "" {
			matchID = req.Final.MatchID
		}
	}

	h.engine.Reset(matchID, final)
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Analyze handles POST /api/analyze. Analysis floods the board once per
// direction so it runs on the analysis pool.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireAnalysis(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseAnalysis()
	}

	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil && err != errEmptyBody {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.PlayerNumber == 0 {
		req.PlayerNumber = 1
	}
	if req.PlayerNumber != 1 && req.PlayerNumber != 2 {
		writeError(w, http.StatusBadRequest, "player_number must be 1 or 2", "INVALID_PLAYER")
		return
	}

	a := h.engine.Analyze(req.MatchID, req.PlayerNumber)
	writeJSON(w, http.StatusOK, a)
}
