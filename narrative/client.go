// Package narrative talks to the remote story-generation service. It
// issues exactly one request per player action, awaits one structured
// reply, and isolates the service's wire format from the rest of the
// game. No retries, no streaming.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"chronicle_weaver/game"
	"chronicle_weaver/prompts"
)

var (
	// ErrTransport marks a request that could not be sent or got no
	// usable response from the service.
	ErrTransport = errors.New("narrative service unreachable")

	// ErrMalformed marks a response that arrived but does not match
	// the expected reply shape.
	ErrMalformed = errors.New("narrative service reply malformed")
)

// Generator produces text for a prompt. The production implementation
// wraps the Gemini API; tests substitute a canned one.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TurnReply is the structured continuation of the story after one
// player action.
type TurnReply struct {
	Narrative string         `json:"narrative"`
	Choices   []game.Choice  `json:"choices"`
	Deltas    map[string]int `json:"deltas"`
	Memories  []game.Memory  `json:"memories"`
	GameOver  bool           `json:"game_over"`
}

// Client is the narrative service client. Timeout bounds each request;
// the original client waited forever, so the bound is a deliberate
// behavioral change, surfaced as an ErrTransport failure.
type Client struct {
	gen     Generator
	timeout time.Duration
}

// NewClient wraps a generator. A zero timeout disables the bound.
func NewClient(gen Generator, timeout time.Duration) *Client {
	return &Client{gen: gen, timeout: timeout}
}

// Turn sends the game context and the player's action and parses the
// structured continuation. On any failure the reply is zero-valued and
// the caller must leave game state untouched.
func (c *Client) Turn(ctx context.Context, snap game.Snapshot, action string) (TurnReply, error) {
	return c.turn(ctx, prompts.BuildTurnPrompt(snap, action))
}

// Opening requests the first scene of a new game for the given role.
func (c *Client) Opening(ctx context.Context, role game.Role) (TurnReply, error) {
	return c.turn(ctx, prompts.BuildOpeningPrompt(role))
}

func (c *Client) turn(ctx context.Context, prompt string) (TurnReply, error) {
	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return TurnReply{}, err
	}
	reply, err := ParseTurnReply(raw)
	if err != nil {
		return TurnReply{}, err
	}
	return reply, nil
}

// Ask sends a free-text advisor question against the same service.
// The reply is plain text, uncorrelated with the main turn loop.
func (c *Client) Ask(ctx context.Context, snap game.Snapshot, question string) (string, error) {
	raw, err := c.generate(ctx, prompts.BuildAdvisorPrompt(snap, question))
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return "", fmt.Errorf("%w: empty advisor answer", ErrMalformed)
	}
	return answer, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	raw, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return raw, nil
}

// ParseTurnReply unmarshals the service's JSON reply. The model
// sometimes wraps the JSON in a markdown fence, so it is stripped
// first.
func ParseTurnReply(raw string) (TurnReply, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var reply TurnReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return TurnReply{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if reply.Narrative == "" {
		return TurnReply{}, fmt.Errorf("%w: reply has no narrative text", ErrMalformed)
	}
	return reply, nil
}
