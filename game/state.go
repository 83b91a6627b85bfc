package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase tracks whether a narrative request is outstanding. While a
// request is awaiting its reply, no second narrative request may begin.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseAwaiting Phase = "awaitingReply"
)

// ErrRequestInFlight is returned by BeginRequest while a previous
// narrative request has not finished.
var ErrRequestInFlight = errors.New("a narrative request is already awaiting its reply")

// Setup carries the validated parameters a new game is built from.
type Setup struct {
	Role       string
	Scene      string
	Attributes map[string]int
	Choices    []Choice
}

// State is the single source of truth for one player's session: the
// current game, the advisor thread, and the request-in-flight flag.
// All mutation goes through its methods. The original client mutated
// state from a single UI thread; here concurrent HTTP handlers share a
// State, so a mutex preserves the same one-mutation-at-a-time contract.
type State struct {
	mu      sync.Mutex
	current *Game
	advisor []AdvisorMessage
	phase   Phase
	lastErr string
	log     *zap.Logger
}

// NewState returns an empty state container. A nil logger is replaced
// with a no-op logger.
func NewState(log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{phase: PhaseIdle, log: log}
}

// StartGame constructs a new game from setup parameters and makes it
// current, replacing any existing game and its advisor thread.
func (s *State) StartGame(setup Setup) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs := make(map[string]int, len(setup.Attributes))
	for k, v := range setup.Attributes {
		attrs[k] = v
	}
	g := &Game{
		ID:         uuid.NewString(),
		Role:       setup.Role,
		Opening:    setup.Scene,
		Scene:      setup.Scene,
		Attributes: attrs,
		Choices:    append([]Choice(nil), setup.Choices...),
		CreatedAt:  time.Now().UTC(),
	}
	s.current = g
	s.advisor = nil
	s.lastErr = ""
	s.log.Info("game started", zap.String("game_id", g.ID), zap.String("role", g.Role))
	return cloneGame(g)
}

// LoadGame restores a previously persisted game (and its advisor
// thread) as the current one.
func (s *State) LoadGame(g *Game, advisor []AdvisorMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cloneGame(g)
	s.advisor = append([]AdvisorMessage(nil), advisor...)
	s.lastErr = ""
}

// EndGame clears the current game and advisor thread.
func (s *State) EndGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.log.Info("game ended", zap.String("game_id", s.current.ID))
	}
	s.current = nil
	s.advisor = nil
	s.phase = PhaseIdle
	s.lastErr = ""
}

// Current returns a copy of the active game, or nil when none exists.
// The copy is safe to read and encode while other requests on the same
// session keep mutating the store.
func (s *State) Current() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGame(s.current)
}

func cloneGame(g *Game) *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.History = append([]NarrativeTurn(nil), g.History...)
	c.Choices = append([]Choice(nil), g.Choices...)
	c.Memories = append([]Memory(nil), g.Memories...)
	c.Attributes = make(map[string]int, len(g.Attributes))
	for k, v := range g.Attributes {
		c.Attributes[k] = v
	}
	return &c
}

// Snapshot copies the context the narrative client needs for prompt
// assembly. Returns false when no game is current.
func (s *State) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	attrs := make(map[string]int, len(s.current.Attributes))
	for k, v := range s.current.Attributes {
		attrs[k] = v
	}
	return Snapshot{
		Role:       s.current.Role,
		Opening:    s.current.Opening,
		History:    append([]NarrativeTurn(nil), s.current.History...),
		Attributes: attrs,
		Memories:   append([]Memory(nil), s.current.Memories...),
	}, true
}

// ApplyNarrativeTurn commits one exchange: appends the turn to the
// history, makes the narrative the current scene, replaces the choice
// set, merges attribute deltas and appends new memories. With no
// current game the call is a no-op; navigation keeps players off the
// play screen before a game exists.
func (s *State) ApplyNarrativeTurn(delta TurnDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	g := s.current
	g.History = append(g.History, NarrativeTurn{Action: delta.Action, Narrative: delta.Narrative})
	g.Scene = delta.Narrative
	g.Choices = append([]Choice(nil), delta.Choices...)
	for name, d := range delta.Attributes {
		g.Attributes[name] += d
	}
	g.Memories = append(g.Memories, delta.Memories...)
	if delta.GameOver {
		g.Over = true
	}
	s.lastErr = ""
}

// AddAdvisorMessage appends a new unresolved advisor question and
// returns its id for later correlation with the reply.
func (s *State) AddAdvisorMessage(question string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := AdvisorMessage{
		ID:        uuid.NewString(),
		Question:  question,
		CreatedAt: time.Now().UTC(),
	}
	s.advisor = append(s.advisor, m)
	return m.ID
}

// UpdateAdvisorResponse sets the response text on the matching message.
// An unknown id leaves state untouched; it is logged because a reply
// that no longer has a home usually means the game was ended while the
// request was outstanding.
func (s *State) UpdateAdvisorResponse(id, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.advisor {
		if s.advisor[i].ID == id {
			s.advisor[i].Response = response
			return
		}
	}
	s.log.Warn("advisor reply for unknown message id dropped", zap.String("message_id", id))
}

// MarkAdvisorMessageResolved sets the resolved flag on the matching
// message. Idempotent; the flag never returns to false.
func (s *State) MarkAdvisorMessageResolved(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.advisor {
		if s.advisor[i].ID == id {
			s.advisor[i].Resolved = true
			return
		}
	}
}

// AdvisorMessages returns the advisor thread in insertion order.
func (s *State) AdvisorMessages() []AdvisorMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AdvisorMessage(nil), s.advisor...)
}

// BeginRequest marks a narrative request as outstanding. It fails with
// ErrRequestInFlight if one already is, so callers cannot race two
// turns against the same game.
func (s *State) BeginRequest() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAwaiting {
		return ErrRequestInFlight
	}
	s.phase = PhaseAwaiting
	return nil
}

// FinishRequest returns the state to idle and records the failure, if
// any, as the last user-visible error.
func (s *State) FinishRequest(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
}

// RequestPhase reports whether a narrative request is outstanding.
func (s *State) RequestPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the most recent request failure, or "" after a
// success.
func (s *State) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
