package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wonny/carbon-portfolio/internal/contracts"
)

// MemoryStore serves a fixed in-memory snapshot of positions
type MemoryStore struct {
	positions []contracts.Position
}

// NewMemoryStore copies positions into a new store
func NewMemoryStore(positions []contracts.Position) *MemoryStore {
	return &MemoryStore{positions: append([]contracts.Position(nil), positions...)}
}

// List returns a copy of the snapshot so callers cannot alter the store
func (s *MemoryStore) List(ctx context.Context) ([]contracts.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]contracts.Position, len(s.positions))
	copy(out, s.positions)
	return out, nil
}

// LoadSeedFile reads a JSON array of positions
func LoadSeedFile(path string) ([]contracts.Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var positions []contracts.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(positions))
	for i, p := range positions {
		if p.ID == "" {
			return nil, fmt.Errorf("seed file %s: position %d has no id", path, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("seed file %s: duplicate position id %q", path, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return positions, nil
}

// SamplePositions is the demo book served when no seed file is configured
func SamplePositions() []contracts.Position {
	return []contracts.Position{
		{ID: "1", ProjectName: "Kasigau Corridor REDD+", Tonnes: 1000, PricePerTonne: 20, Status: contracts.StatusAvailable, Vintage: 2023},
		{ID: "2", ProjectName: "Katingan Mentaya Peatland", Tonnes: 500, PricePerTonne: 18.5, Status: contracts.StatusAvailable, Vintage: 2022},
		{ID: "3", ProjectName: "Guanare Forest Restoration", Tonnes: 250, PricePerTonne: 32, Status: contracts.StatusRetired, Vintage: 2021},
		{ID: "4", ProjectName: "Rimba Raya Biodiversity Reserve", Tonnes: 750, PricePerTonne: 15.75, Status: contracts.StatusAvailable, Vintage: 2024},
		{ID: "5", ProjectName: "Cordillera Azul National Park", Tonnes: 100, PricePerTonne: 30, Status: contracts.StatusRetired, Vintage: 2020},
	}
}
