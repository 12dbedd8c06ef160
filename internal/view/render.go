package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/wonny/carbon-portfolio/internal/contracts"
)

const (
	pageTitle    = "Carbon Portfolio"
	pageSubtitle = "Manage and track your carbon credit positions"
)

var printer = message.NewPrinter(language.English)

// FormatNumber groups thousands with up to three fraction digits, e.g. 1234.5 -> "1,234.5"
func FormatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCurrency is FormatNumber with a "$" prefix
func FormatCurrency(v float64) string {
	return "$" + FormatNumber(v)
}

// FormatPrice renders a per-tonne price with two decimals
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Render writes the text form of the page to w
func (p *Page) Render(w io.Writer) error {
	return RenderState(w, p.State())
}

// RenderState writes the text form of state to w
func RenderState(w io.Writer, state PageState) error {
	var b strings.Builder

	b.WriteString(pageTitle + "\n")
	b.WriteString(pageSubtitle + "\n\n")

	fmt.Fprintf(&b, "Status: %s\n\n", state.Selected.Label())

	b.WriteString("Portfolio Summary\n")
	renderSummary(&b, state.Summary)
	b.WriteString("\n")

	b.WriteString("Positions\n")
	if err := renderPositions(&b, state.Positions); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSummary(b *strings.Builder, panel SummaryPanel) {
	switch {
	case panel.State == StateLoading || panel.State == StateIdle:
		b.WriteString("  Total Tonnes:         ...\n")
		b.WriteString("  Total Value:          ...\n")
		b.WriteString("  Average Price/Tonne:  ...\n")
	case panel.Summary == nil:
		b.WriteString("  No summary available\n")
	default:
		s := panel.Summary
		fmt.Fprintf(b, "  Total Tonnes:         %s\n", FormatNumber(s.TotalTonnes))
		fmt.Fprintf(b, "  Total Value:          %s\n", FormatCurrency(s.TotalValue))
		fmt.Fprintf(b, "  Average Price/Tonne:  %s\n", FormatPrice(s.AveragePricePerTonne))
	}
}

func renderPositions(b *strings.Builder, panel PositionsPanel) error {
	if panel.State == StateLoading || panel.State == StateIdle {
		b.WriteString("  Loading positions...\n")
		return nil
	}
	if len(panel.Positions) == 0 {
		b.WriteString("  No positions found\n")
		return nil
	}

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Project\tVintage\tTonnes\tPrice/Tonne\tValue\tStatus")
	for _, pos := range panel.Positions {
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\n",
			pos.ProjectName,
			pos.Vintage,
			FormatNumber(pos.Tonnes),
			FormatPrice(pos.PricePerTonne),
			FormatCurrency(pos.Value()),
			statusBadge(pos.Status),
		)
	}
	return tw.Flush()
}

func statusBadge(status contracts.PositionStatus) string {
	if status == "" {
		return "-"
	}
	return StatusOption(status).Label()
}
