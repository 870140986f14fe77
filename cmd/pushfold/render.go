package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pushfold/decision"
)

type styles struct {
	header   lipgloss.Style
	hero     lipgloss.Style
	scenario lipgloss.Style
	probs    lipgloss.Style
	actions  map[decision.Action]lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		hero:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		scenario: r.NewStyle().Foreground(lipgloss.Color("12")),
		probs:    r.NewStyle().Faint(true),
		actions: map[decision.Action]lipgloss.Style{
			decision.Fold:  r.NewStyle().Foreground(lipgloss.Color("8")),
			decision.Call:  r.NewStyle().Foreground(lipgloss.Color("12")),
			decision.Raise: r.NewStyle().Foreground(lipgloss.Color("11")),
			decision.Shove: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		},
	}
}

// renderText prints the sweep grouped by hero seat, one line per decision.
func renderText(w io.Writer, doc decision.Document, color bool) error {
	st := newStyles(w, color)
	meta := doc.Meta

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", st.header.Render(fmt.Sprintf(
		"Preflop decisions: players=%d, depth=%gbb, hand=%s (%s, %s), profile=%s",
		meta.Players, meta.Depth, meta.HandInput, meta.Normalized, meta.Normalized.Category(), meta.Profile)))

	for _, hero := range meta.HeroPositions {
		fmt.Fprintf(&b, "%s\n", st.hero.Render("HERO "+string(hero)))
		for _, d := range doc.Decisions {
			if d.HeroPos != hero {
				continue
			}
			label := string(d.Scenario)
			if d.Villain != nil {
				label += " vs " + string(*d.Villain)
			}
			fmt.Fprintf(&b, "  %s: %s -> %s", st.scenario.Render(label), d.Hand, st.actions[d.Action].Render(d.Action.String()))
			if d.Probs != nil {
				fmt.Fprintf(&b, " %s", st.probs.Render("("+d.Probs.String()+")"))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, doc decision.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
