package game

// Condition describes an attribute's standing in words, for the
// character sheet.
type Condition struct {
	Description string `json:"description"`
	Color       string `json:"color"`
}

// AttributeCondition buckets an attribute value relative to its
// starting value into a descriptive band.
func AttributeCondition(value, initial int) Condition {
	if initial <= 0 {
		initial = 1
	}
	pct := value * 100 / initial
	switch {
	case pct >= 120:
		return Condition{"Thriving", "#a6e22e"}
	case pct >= 80:
		return Condition{"Steady", "#e6db74"}
	case pct >= 40:
		return Condition{"Strained", "#fd971f"}
	case pct > 0:
		return Condition{"Desperate", "#f92672"}
	default:
		return Condition{"Ruined", "#75715e"}
	}
}
