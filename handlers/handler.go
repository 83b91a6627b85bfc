package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chronicle_weaver/archive"
	"chronicle_weaver/game"
	"chronicle_weaver/narrative"
	"chronicle_weaver/session"
)

// FallbackNarrative is shown in place of the story when the narrative
// service fails. Game state is left untouched so the player can simply
// try again.
const FallbackNarrative = "The chronicler pauses, quill hovering over the page. The thread of the story has slipped away for a moment. Take a breath and try your action again."

// Handler wires the screens to the game state store and the narrative
// service.
type Handler struct {
	Client   *narrative.Client
	Sessions *session.Manager
	Archive  *archive.Archive
	Catalog  *game.Catalog
	Log      *zap.Logger
}

type startRequest struct {
	RoleID string `json:"role_id"`
}

type turnResponse struct {
	Narrative  string         `json:"narrative"`
	Choices    []game.Choice  `json:"choices"`
	Attributes map[string]int `json:"attributes"`
	GameOver   bool           `json:"game_over"`
	Fallback   bool           `json:"fallback,omitempty"`
}

// StartGame creates a new game for the chosen role and generates its
// opening scene. Any existing game in the session is replaced.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	role, ok := h.Catalog.Find(req.RoleID)
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	st := h.Sessions.State(w, r)
	if err := st.BeginRequest(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	reply, err := h.Client.Opening(r.Context(), role)
	if err != nil {
		st.FinishRequest(err)
		h.Log.Warn("opening scene generation failed", zap.Error(err))
		writeJSON(w, turnResponse{Narrative: FallbackNarrative, Fallback: true})
		return
	}

	// The slot is released only after the game exists, so no competing
	// request can sneak in between the reply and the commit.
	g := st.StartGame(game.Setup{
		Role:       role.Name,
		Scene:      reply.Narrative,
		Attributes: role.Attributes,
		Choices:    reply.Choices,
	})
	st.FinishRequest(nil)
	writeJSON(w, struct {
		GameID string `json:"game_id"`
		turnResponse
	}{
		GameID: g.ID,
		turnResponse: turnResponse{
			Narrative:  g.Scene,
			Choices:    g.Choices,
			Attributes: g.Attributes,
		},
	})
}

// Turn accepts a player command, relays it to the narrative service,
// and commits the continuation. Exactly one turn may be awaiting its
// reply at a time; a second submission is refused with 409. On service
// failure the committed state is untouched and the fallback narrative
// is returned with the loading flag already cleared.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd game.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	st := h.Sessions.State(w, r)
	g := st.Current()
	if g == nil {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}
	if g.Over {
		http.Error(w, "the story has ended", http.StatusBadRequest)
		return
	}

	action, err := game.ResolveCommand(cmd, g.Choices)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, ok := st.Snapshot()
	if !ok {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}
	if err := st.BeginRequest(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	reply, err := h.Client.Turn(r.Context(), snap, action)
	if err != nil {
		st.FinishRequest(err)
		h.Log.Warn("narrative turn failed",
			zap.String("game_id", g.ID),
			zap.Bool("malformed", errors.Is(err, narrative.ErrMalformed)),
			zap.Error(err))
		writeJSON(w, turnResponse{
			Narrative:  FallbackNarrative,
			Choices:    g.Choices,
			Attributes: g.Attributes,
			Fallback:   true,
		})
		return
	}

	// Commit before releasing the slot: a second turn admitted in
	// between would snapshot a context missing this turn's delta.
	st.ApplyNarrativeTurn(game.TurnDelta{
		Action:     action,
		Narrative:  reply.Narrative,
		Choices:    reply.Choices,
		Attributes: reply.Deltas,
		Memories:   reply.Memories,
		GameOver:   reply.GameOver,
	})
	st.FinishRequest(nil)

	g = st.Current()
	writeJSON(w, turnResponse{
		Narrative:  g.Scene,
		Choices:    g.Choices,
		Attributes: g.Attributes,
		GameOver:   g.Over,
	})
}

// EndGame clears the session's game and advisor thread.
func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := h.Sessions.State(w, r)
	st.EndGame()
	w.WriteHeader(http.StatusNoContent)
}

// SaveGame writes the current game and advisor thread to the archive.
func (h *Handler) SaveGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := h.Sessions.State(w, r)
	g := st.Current()
	if g == nil {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}
	if err := h.Archive.SaveGame(g, st.AdvisorMessages()); err != nil {
		h.Log.Error("archive save failed", zap.String("game_id", g.ID), zap.Error(err))
		http.Error(w, "could not save the game", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"game_id": g.ID})
}

// LoadGame restores an archived game into the session, replacing any
// game in progress.
func (h *Handler) LoadGame(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}
	g, advisor, err := h.Archive.LoadGame(id)
	if errors.Is(err, archive.ErrNotFound) {
		http.Error(w, "no saved game with that id", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("archive load failed", zap.String("game_id", id), zap.Error(err))
		http.Error(w, "could not load the game", http.StatusInternalServerError)
		return
	}
	st := h.Sessions.State(w, r)
	st.LoadGame(g, advisor)
	writeJSON(w, turnResponse{
		Narrative:  g.Scene,
		Choices:    g.Choices,
		Attributes: g.Attributes,
		GameOver:   g.Over,
	})
}

type statusResponse struct {
	InGame    bool   `json:"in_game"`
	Loading   bool   `json:"loading"`
	GameOver  bool   `json:"game_over"`
	LastError string `json:"last_error,omitempty"`
}

// Status reports the session's transient UI flags: whether a game is
// current, whether a narrative request is awaiting its reply, and the
// most recent request failure.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.State(w, r)
	resp := statusResponse{
		Loading:   st.RequestPhase() == game.PhaseAwaiting,
		LastError: st.LastError(),
	}
	if g := st.Current(); g != nil {
		resp.InGame = true
		resp.GameOver = g.Over
	}
	writeJSON(w, resp)
}

// Logout ends the game and releases the session itself, expiring the
// cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := h.Sessions.State(w, r)
	st.EndGame()
	h.Sessions.Drop(r)
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding response failed", http.StatusInternalServerError)
	}
}
