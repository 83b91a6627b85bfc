package handlers

import (
	"fmt"
	"net/http"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// ExportChronicle renders the narrative history as a downloadable PDF,
// one page flow of action/continuation pairs.
func (h *Handler) ExportChronicle(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.State(w, r)
	g := st.Current()
	if g == nil {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Chronicle Weaver", false)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 20)
	pdf.MultiCell(0, 10, fmt.Sprintf("The Chronicle of a %s", g.Role), "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Times", "", 12)
	if g.Opening != "" {
		pdf.MultiCell(0, 6, g.Opening, "", "L", false)
		pdf.Ln(4)
	}
	for _, turn := range g.History {
		if turn.Action != "" {
			pdf.SetFont("Times", "I", 12)
			pdf.MultiCell(0, 6, turn.Action, "", "L", false)
			pdf.Ln(2)
		}
		pdf.SetFont("Times", "", 12)
		pdf.MultiCell(0, 6, turn.Narrative, "", "L", false)
		pdf.Ln(4)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="chronicle.pdf"`)
	if err := pdf.Output(w); err != nil {
		h.Log.Error("chronicle export failed", zap.String("game_id", g.ID), zap.Error(err))
	}
}
