package portfolio

import "github.com/wonny/carbon-portfolio/internal/contracts"

// SummaryOptions narrows the set of positions a summary covers
type SummaryOptions struct {
	// Status keeps only positions whose status equals it exactly. Nil means no filter.
	Status *contracts.PositionStatus
}

// WithStatus builds options filtering on status
func WithStatus(status contracts.PositionStatus) SummaryOptions {
	return SummaryOptions{Status: &status}
}

func (o SummaryOptions) matches(p contracts.Position) bool {
	return o.Status == nil || p.Status == *o.Status
}

// ComputeSummary reduces positions to total tonnes, total value and the
// tonnage-weighted average price. It never mutates positions.
//
// An empty working set yields the zero summary. When the working set is not
// empty but its tonnes sum to zero the average is reported as 0 rather than NaN.
func ComputeSummary(positions []contracts.Position, opts SummaryOptions) contracts.PortfolioSummary {
	var summary contracts.PortfolioSummary

	for _, p := range positions {
		if !opts.matches(p) {
			continue
		}
		summary.TotalTonnes += p.Tonnes
		summary.TotalValue += p.Value()
	}

	if summary.TotalTonnes != 0 {
		summary.AveragePricePerTonne = summary.TotalValue / summary.TotalTonnes
	}

	return summary
}

// FilterByStatus returns the positions a summary with opts would cover, in input order
func FilterByStatus(positions []contracts.Position, opts SummaryOptions) []contracts.Position {
	filtered := make([]contracts.Position, 0, len(positions))
	for _, p := range positions {
		if opts.matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
