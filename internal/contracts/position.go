package contracts

import "context"

// PositionStatus is the lifecycle state of a lot of carbon credits.
// Values outside the known set are carried as-is and simply match no filter.
type PositionStatus string

const (
	StatusAvailable PositionStatus = "available"
	StatusRetired   PositionStatus = "retired"
)

// KnownStatuses lists the statuses the portfolio UI offers as filters
var KnownStatuses = []PositionStatus{StatusAvailable, StatusRetired}

// IsKnown reports whether s is one of the closed set of statuses
func (s PositionStatus) IsKnown() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Position represents one lot of carbon credits
type Position struct {
	ID            string         `json:"id"`
	ProjectName   string         `json:"projectName"`
	Tonnes        float64        `json:"tonnes"`
	PricePerTonne float64        `json:"pricePerTonne"`
	Status        PositionStatus `json:"status"`
	Vintage       int            `json:"vintage"`
}

// Value returns tonnes × price per tonne
func (p Position) Value() float64 {
	return p.Tonnes * p.PricePerTonne
}

// PortfolioSummary is the aggregate over a set of positions.
// It has no identity and is recomputed on every request.
type PortfolioSummary struct {
	TotalTonnes          float64 `json:"totalTonnes"`
	TotalValue           float64 `json:"totalValue"`
	AveragePricePerTonne float64 `json:"averagePricePerTonne"`
}

// PositionRepository supplies position snapshots
type PositionRepository interface {
	List(ctx context.Context) ([]Position, error)
}
