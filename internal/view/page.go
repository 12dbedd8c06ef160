package view

import (
	"context"
	"sync"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// LoadState tracks one fetch: Idle -> Loading -> Success | Error
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher is the data source of the page
type Fetcher interface {
	FetchPositions(ctx context.Context) ([]contracts.Position, error)
	FetchSummary(ctx context.Context, option StatusOption) (contracts.PortfolioSummary, error)
}

// Notification is a toast shown to the user
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier reports notifications
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	Logger *logger.Logger
}

// Notify logs n at error level when destructive, info otherwise
func (n LogNotifier) Notify(note Notification) {
	log := n.Logger.WithField("title", note.Title)
	if note.Destructive {
		log.Error(note.Description)
		return
	}
	log.Info(note.Description)
}

const (
	positionsErrorMessage = "Failed to load portfolio positions. Make sure the backend is running."
	summaryErrorMessage   = "Failed to load portfolio summary"
)

// PositionsPanel is the positions table state
type PositionsPanel struct {
	State     LoadState
	Positions []contracts.Position
	Err       error
}

// SummaryPanel is the summary cards state
type SummaryPanel struct {
	State   LoadState
	Summary *contracts.PortfolioSummary
	Err     error
}

// PageState is a point-in-time copy of the page
type PageState struct {
	Selected  StatusOption
	Positions PositionsPanel
	Summary   SummaryPanel
}

// Page drives the two independent fetches of the portfolio page.
// The selected status filter is the only state they share.
type Page struct {
	fetcher  Fetcher
	notifier Notifier

	mu         sync.Mutex
	selected   StatusOption
	summarySeq uint64
	positions  PositionsPanel
	summary    SummaryPanel
}

// NewPage creates an idle page with the "all" filter selected
func NewPage(fetcher Fetcher, notifier Notifier) *Page {
	return &Page{
		fetcher:  fetcher,
		notifier: notifier,
		selected: OptionAll,
	}
}

// Load runs the initial positions and summary fetches concurrently
func (p *Page) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.LoadPositions(ctx)
	}()
	go func() {
		defer wg.Done()
		p.LoadSummary(ctx)
	}()
	wg.Wait()
}

// LoadPositions fetches the positions table
func (p *Page) LoadPositions(ctx context.Context) {
	p.mu.Lock()
	p.positions.State = StateLoading
	p.positions.Err = nil
	p.mu.Unlock()

	positions, err := p.fetcher.FetchPositions(ctx)

	p.mu.Lock()
	if err != nil {
		p.positions.State = StateError
		p.positions.Err = err
	} else {
		p.positions.State = StateSuccess
		p.positions.Positions = positions
	}
	p.mu.Unlock()

	if err != nil {
		p.notifier.Notify(Notification{Title: "Error", Description: positionsErrorMessage, Destructive: true})
	}
}

// LoadSummary fetches the summary for the selected filter.
// A response for a filter that has since been replaced is dropped.
func (p *Page) LoadSummary(ctx context.Context) {
	p.mu.Lock()
	p.summarySeq++
	seq := p.summarySeq
	option := p.selected
	p.summary.State = StateLoading
	p.summary.Err = nil
	p.mu.Unlock()

	summary, err := p.fetcher.FetchSummary(ctx, option)

	p.mu.Lock()
	if seq != p.summarySeq {
		p.mu.Unlock()
		return
	}
	if err != nil {
		// the last good summary stays on screen next to the error toast
		p.summary.State = StateError
		p.summary.Err = err
	} else {
		p.summary.State = StateSuccess
		p.summary.Summary = &summary
	}
	p.mu.Unlock()

	if err != nil {
		p.notifier.Notify(Notification{Title: "Error", Description: summaryErrorMessage, Destructive: true})
	}
}

// SelectStatus changes the filter and refetches the summary
func (p *Page) SelectStatus(ctx context.Context, option StatusOption) {
	p.mu.Lock()
	p.selected = option
	p.mu.Unlock()

	p.LoadSummary(ctx)
}

// State returns a copy of the current page state
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := PageState{
		Selected:  p.selected,
		Positions: p.positions,
		Summary:   p.summary,
	}
	state.Positions.Positions = append([]contracts.Position(nil), p.positions.Positions...)
	if p.summary.Summary != nil {
		s := *p.summary.Summary
		state.Summary.Summary = &s
	}
	return state
}
