package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soocke/traystack-go/domain/traystack"
)

var (
	stableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	unstableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	finalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(0, 1)
)

func stateText(r traystack.Result) string {
	if r.Stable {
		return stableStyle.Render("stable")
	}
	return unstableStyle.Render("unstable")
}

// formatResult renders one result as a single status line.
func formatResult(r traystack.Result) string {
	count := unstableStyle.Render(fmt.Sprintf("%d", r.Count))
	if r.Stable {
		count = stableStyle.Render(fmt.Sprintf("%d", r.Count))
	}
	return fmt.Sprintf("count %s %s %s", count, stateText(r),
		mutedStyle.Render(fmt.Sprintf("raw %d  peaks %d  agree %.0f%%", r.RawCount, r.Peaks, r.Ratio*100)))
}

// writeSummary prints the boxed final count followed by peak details.
func writeSummary(w io.Writer, r traystack.Result) error {
	box := finalStyle.Render(fmt.Sprintf("Trays: %d (%s)", r.Count, stateText(r)))
	rows := make([]string, len(r.PeaksY))
	for i, y := range r.PeaksY {
		rows[i] = fmt.Sprintf("%d", y)
	}
	details := mutedStyle.Render(fmt.Sprintf("seams at rows [%s]  threshold %.2f  roi %v",
		strings.Join(rows, " "), r.Threshold, r.ROI))
	_, err := fmt.Fprintf(w, "%s\n%s\n", box, details)
	return err
}
