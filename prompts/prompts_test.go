package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chronicle_weaver/game"
)

func TestBuildTurnPrompt(t *testing.T) {
	snap := game.Snapshot{
		Role:       "Bank Manager",
		Attributes: map[string]int{"cash": 1000},
		History: []game.NarrativeTurn{
			{Action: "Start", Narrative: "The vault opens."},
		},
	}

	p := BuildTurnPrompt(snap, "Approve the loan")
	assert.Contains(t, p, "CHARACTER ROLE: Bank Manager")
	assert.Contains(t, p, "cash: 1000")
	assert.Contains(t, p, "The vault opens.")
	assert.Contains(t, p, "PLAYER ACTION: Approve the loan")
}

func TestBuildTurnPromptBoundsHistory(t *testing.T) {
	snap := game.Snapshot{Role: "Bank Manager", Attributes: map[string]int{"cash": 1}}
	for i := 0; i < historyWindow+10; i++ {
		snap.History = append(snap.History, game.NarrativeTurn{
			Action:    fmt.Sprintf("action %d", i),
			Narrative: fmt.Sprintf("turn %d", i),
		})
	}

	p := BuildTurnPrompt(snap, "wait")
	assert.NotContains(t, p, "turn 0")
	assert.Contains(t, p, fmt.Sprintf("turn %d", historyWindow+9))
	assert.Equal(t, historyWindow, strings.Count(p, "\naction "))
}

func TestBuildOpeningPrompt(t *testing.T) {
	role := game.Role{
		Name:       "Bank Manager",
		Era:        "Vienna, 1903",
		Premise:    "The vault keys are yours.",
		Attributes: map[string]int{"cash": 1000},
	}

	p := BuildOpeningPrompt(role)
	assert.Contains(t, p, "Bank Manager (Vienna, 1903)")
	assert.Contains(t, p, "PREMISE: The vault keys are yours.")
	assert.Contains(t, p, "Begin the story")
}

func TestBuildAdvisorPrompt(t *testing.T) {
	snap := game.Snapshot{Role: "Bank Manager", Opening: "The vault opens.", Attributes: map[string]int{"cash": 1}}

	p := BuildAdvisorPrompt(snap, "What is inflation?")
	assert.Contains(t, p, AdvisorPrompt)
	assert.Contains(t, p, "PLAYER QUESTION: What is inflation?")
	assert.Contains(t, p, "The vault opens.")
	assert.NotContains(t, p, "MUST respond with a single, valid JSON object")
}
