package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle_weaver/game"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleGame() *game.Game {
	return &game.Game{
		ID:      "g1",
		Role:    "Bank Manager",
		Opening: "The vault keys are cold in your hand.",
		Scene:   "The loan is approved...",
		History: []game.NarrativeTurn{
			{Action: "Start", Narrative: "The vault keys are cold in your hand."},
			{Action: "Approve the loan", Narrative: "The loan is approved..."},
		},
		Attributes: map[string]int{"cash": 800, "standing": 60},
		Memories:   []game.Memory{{Title: "The baron's favor", Detail: "he owes you now"}},
		Choices:    []game.Choice{{ID: "c3", Text: "Continue"}},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	a := openTestArchive(t)
	g := sampleGame()
	advisor := []game.AdvisorMessage{
		{ID: "m1", Question: "What is inflation?", Response: "Inflation is...", Resolved: true, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: "m2", Question: "Is the baron trustworthy?", CreatedAt: time.Now().UTC().Truncate(time.Second).Add(time.Second)},
	}

	require.NoError(t, a.SaveGame(g, advisor))

	loaded, loadedAdvisor, err := a.LoadGame("g1")
	require.NoError(t, err)
	assert.Equal(t, g.Role, loaded.Role)
	assert.Equal(t, g.Opening, loaded.Opening)
	assert.Equal(t, g.Scene, loaded.Scene)
	assert.Equal(t, g.History, loaded.History)
	assert.Equal(t, g.Attributes, loaded.Attributes)
	assert.Equal(t, g.Memories, loaded.Memories)
	assert.Equal(t, g.Choices, loaded.Choices)
	assert.False(t, loaded.Over)

	require.Len(t, loadedAdvisor, 2)
	assert.Equal(t, "m1", loadedAdvisor[0].ID)
	assert.True(t, loadedAdvisor[0].Resolved)
	assert.Equal(t, "m2", loadedAdvisor[1].ID)
	assert.Empty(t, loadedAdvisor[1].Response)
}

func TestSaveGameIsUpsert(t *testing.T) {
	a := openTestArchive(t)
	g := sampleGame()
	require.NoError(t, a.SaveGame(g, nil))

	g.Scene = "The bank fails."
	g.Over = true
	g.Attributes["cash"] = 0
	require.NoError(t, a.SaveGame(g, nil))

	loaded, _, err := a.LoadGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "The bank fails.", loaded.Scene)
	assert.True(t, loaded.Over)
	assert.Equal(t, 0, loaded.Attributes["cash"])
}

func TestSaveGameReplacesAdvisorThread(t *testing.T) {
	a := openTestArchive(t)
	g := sampleGame()
	require.NoError(t, a.SaveGame(g, []game.AdvisorMessage{
		{ID: "m1", Question: "First?", CreatedAt: time.Now().UTC()},
	}))
	require.NoError(t, a.SaveGame(g, []game.AdvisorMessage{
		{ID: "m1", Question: "First?", Response: "Yes.", Resolved: true, CreatedAt: time.Now().UTC()},
		{ID: "m2", Question: "Second?", CreatedAt: time.Now().UTC().Add(time.Second)},
	}))

	_, advisor, err := a.LoadGame("g1")
	require.NoError(t, err)
	require.Len(t, advisor, 2)
	assert.Equal(t, "Yes.", advisor[0].Response)
}

func TestLoadGameNotFound(t *testing.T) {
	a := openTestArchive(t)
	_, _, err := a.LoadGame("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
