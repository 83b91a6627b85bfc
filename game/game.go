package game

import "time"

// Game holds the narrative and character state of one play session.
type Game struct {
	ID         string          `json:"id"`
	Role       string          `json:"role"`
	Opening    string          `json:"opening"`
	Scene      string          `json:"scene"`
	History    []NarrativeTurn `json:"history"`
	Attributes map[string]int  `json:"attributes"`
	Memories   []Memory        `json:"memories"`
	Choices    []Choice        `json:"choices"`
	Over       bool            `json:"over"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NarrativeTurn is one committed exchange: the player's action and the
// story continuation it produced. Turns are never edited or removed.
type NarrativeTurn struct {
	Action    string `json:"action"`
	Narrative string `json:"narrative"`
}

// Choice is a predefined selectable action for the current turn only.
// A new turn always replaces the prior choice set.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Tag  string `json:"tag,omitempty"`
}

// Memory is a lasting item or recollection the character carries.
type Memory struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// AdvisorMessage is an out-of-narrative question to the advisor,
// independent of the main story turns. Response is empty while a reply
// is outstanding; Resolved only ever moves from false to true.
type AdvisorMessage struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Response  string    `json:"response,omitempty"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnDelta is the structured outcome of one narrative exchange, ready
// to be merged into the current game.
type TurnDelta struct {
	Action     string
	Narrative  string
	Choices    []Choice
	Attributes map[string]int
	Memories   []Memory
	GameOver   bool
}

// Snapshot is a read-only copy of the game context handed to the
// narrative client for prompt assembly.
type Snapshot struct {
	Role       string
	Opening    string
	History    []NarrativeTurn
	Attributes map[string]int
	Memories   []Memory
}
