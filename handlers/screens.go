package handlers

import (
	"net/http"

	"chronicle_weaver/game"
)

type attributeView struct {
	Value     int            `json:"value"`
	Condition game.Condition `json:"condition"`
}

type characterSheet struct {
	Role       string                   `json:"role"`
	Attributes map[string]attributeView `json:"attributes"`
	GameOver   bool                     `json:"game_over"`
}

// CharacterSheet serves the character screen: attributes with a
// descriptive condition band for each, judged against the role's
// starting values.
func (h *Handler) CharacterSheet(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.State(w, r)
	g := st.Current()
	if g == nil {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}

	initial := map[string]int{}
	for _, role := range h.Catalog.Roles {
		if role.Name == g.Role {
			initial = role.Attributes
			break
		}
	}

	sheet := characterSheet{
		Role:       g.Role,
		Attributes: make(map[string]attributeView, len(g.Attributes)),
		GameOver:   g.Over,
	}
	for name, v := range g.Attributes {
		sheet.Attributes[name] = attributeView{
			Value:     v,
			Condition: game.AttributeCondition(v, initial[name]),
		}
	}
	writeJSON(w, sheet)
}

// Memories serves the memories screen: everything lasting the character
// has picked up, in the order it was gained.
func (h *Handler) Memories(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.State(w, r)
	g := st.Current()
	if g == nil {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}
	memories := g.Memories
	if memories == nil {
		memories = []game.Memory{}
	}
	writeJSON(w, memories)
}

// Lore serves the setup/lore screen: the catalog of playable roles.
func (h *Handler) Lore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Catalog.Roles)
}
