package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/ui/output"
	"go.trai.ch/upkeep/internal/ui/style"
)

// Printer writes the human-readable run summary.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a Printer on w, coloring only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithProfile(w, output.ProfileFor(w))
}

// NewPrinterWithProfile creates a Printer with a fixed color profile.
func NewPrinterWithProfile(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Printer{w: w, renderer: r}
}

// Print renders the summary.
func (p *Printer) Print(s *domain.RunSummary) error {
	var b strings.Builder

	title := p.renderer.NewStyle().Bold(true).Foreground(style.Accent)
	muted := p.renderer.NewStyle().Foreground(style.Muted)
	green := p.renderer.NewStyle().Foreground(style.Green)
	red := p.renderer.NewStyle().Foreground(style.Red)
	yellow := p.renderer.NewStyle().Foreground(style.Yellow)

	b.WriteString(title.Render("Upgrade summary"))
	b.WriteString(muted.Render(fmt.Sprintf("  run %s, %d passes, %s", s.RunID, s.Passes, s.Outcome)))
	b.WriteString("\n")

	if len(s.Updated) == 0 && len(s.Failed) == 0 {
		b.WriteString(green.Render(style.Check + " all packages are up to date"))
		b.WriteString("\n")
	}

	if len(s.Updated) > 0 {
		b.WriteString("\n")
		b.WriteString(green.Render(fmt.Sprintf("%s %d updated", style.Check, len(s.Updated))))
		b.WriteString("\n")
		rows := make([][]string, len(s.Updated))
		for i, u := range s.Updated {
			rows[i] = []string{u.Name, u.From, u.Target, u.Reached, string(u.Method)}
		}
		b.WriteString(p.table([]string{"Package", "From", "Target", "Reached", "Method"}, rows).Render())
		b.WriteString("\n")
	}

	if len(s.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(red.Render(fmt.Sprintf("%s %d failed", style.Cross, len(s.Failed))))
		b.WriteString("\n")
		rows := make([][]string, len(s.Failed))
		for i, f := range s.Failed {
			rows[i] = []string{f.Name, f.Target, f.Reason}
		}
		b.WriteString(p.table([]string{"Package", "Target", "Reason"}, rows).Render())
		b.WriteString("\n")
	}

	if len(s.Constraints) > 0 {
		b.WriteString("\n")
		b.WriteString(muted.Render("Learned constraints: " + strings.Join(s.Constraints, ", ")))
		b.WriteString("\n")
	}
	if len(s.Excluded) > 0 {
		b.WriteString(muted.Render("Held back after bootstrap: " + strings.Join(s.Excluded, ", ")))
		b.WriteString("\n")
	}

	if s.Health != nil {
		if s.Health.Passed {
			b.WriteString(green.Render(style.Check + " final health check passed"))
		} else {
			b.WriteString(yellow.Render(fmt.Sprintf("%s final health check failed at the %s stage", style.Warning, s.Health.Stage)))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) table(headers []string, rows [][]string) *table.Table {
	header := p.renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := p.renderer.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.renderer.NewStyle().Foreground(style.Muted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}
