package view

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/config"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

type fakeFetcher struct {
	mu           sync.Mutex
	positions    []contracts.Position
	positionsErr error
	summaries    map[StatusOption]contracts.PortfolioSummary
	summaryErr   error
	requested    []StatusOption

	// block, when set, holds FetchSummary for the given option until released
	block   map[StatusOption]chan struct{}
	started chan StatusOption
}

func (f *fakeFetcher) FetchPositions(ctx context.Context) ([]contracts.Position, error) {
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	return f.positions, nil
}

func (f *fakeFetcher) FetchSummary(ctx context.Context, option StatusOption) (contracts.PortfolioSummary, error) {
	f.mu.Lock()
	f.requested = append(f.requested, option)
	ch := f.block[option]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- option
	}
	if ch != nil {
		<-ch
	}
	if f.summaryErr != nil {
		return contracts.PortfolioSummary{}, f.summaryErr
	}
	return f.summaries[option], nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (n *recordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) descriptions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, note.Description)
	}
	return out
}

func samplePage() (*fakeFetcher, *recordingNotifier, *Page) {
	fetcher := &fakeFetcher{
		positions: []contracts.Position{
			{ID: "1", ProjectName: "Rimba Raya", Tonnes: 1500, PricePerTonne: 12.5, Status: contracts.StatusAvailable, Vintage: 2020},
			{ID: "2", ProjectName: "Katingan Mentaya", Tonnes: 250, PricePerTonne: 18, Status: contracts.StatusRetired, Vintage: 2019},
		},
		summaries: map[StatusOption]contracts.PortfolioSummary{
			OptionAll:       {TotalTonnes: 1750, TotalValue: 23250, AveragePricePerTonne: 13.285714},
			OptionAvailable: {TotalTonnes: 1500, TotalValue: 18750, AveragePricePerTonne: 12.5},
			OptionRetired:   {TotalTonnes: 250, TotalValue: 4500, AveragePricePerTonne: 18},
		},
	}
	notifier := &recordingNotifier{}
	return fetcher, notifier, NewPage(fetcher, notifier)
}

func TestLoadState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", LoadState(42).String())
}

func TestNewPage_Idle(t *testing.T) {
	_, _, page := samplePage()

	state := page.State()
	assert.Equal(t, OptionAll, state.Selected)
	assert.Equal(t, StateIdle, state.Positions.State)
	assert.Equal(t, StateIdle, state.Summary.State)
}

func TestPage_Load_Success(t *testing.T) {
	fetcher, notifier, page := samplePage()

	page.Load(context.Background())

	state := page.State()
	assert.Equal(t, StateSuccess, state.Positions.State)
	assert.Len(t, state.Positions.Positions, 2)
	assert.Equal(t, StateSuccess, state.Summary.State)
	require.NotNil(t, state.Summary.Summary)
	assert.Equal(t, 1750.0, state.Summary.Summary.TotalTonnes)
	assert.Equal(t, []StatusOption{OptionAll}, fetcher.requested)
	assert.Empty(t, notifier.descriptions())
}

func TestPage_PanelsFailIndependently(t *testing.T) {
	t.Run("positions fail", func(t *testing.T) {
		fetcher, notifier, page := samplePage()
		fetcher.positionsErr = errors.New("connection refused")

		page.Load(context.Background())

		state := page.State()
		assert.Equal(t, StateError, state.Positions.State)
		assert.Error(t, state.Positions.Err)
		assert.Equal(t, StateSuccess, state.Summary.State)
		assert.Equal(t, []string{positionsErrorMessage}, notifier.descriptions())
	})

	t.Run("summary fails", func(t *testing.T) {
		fetcher, notifier, page := samplePage()
		fetcher.summaryErr = errors.New("status 500")

		page.Load(context.Background())

		state := page.State()
		assert.Equal(t, StateSuccess, state.Positions.State)
		assert.Equal(t, StateError, state.Summary.State)
		assert.Nil(t, state.Summary.Summary)
		assert.Equal(t, []string{summaryErrorMessage}, notifier.descriptions())
	})
}

func TestPage_SelectStatus(t *testing.T) {
	fetcher, _, page := samplePage()
	page.Load(context.Background())

	page.SelectStatus(context.Background(), OptionRetired)

	state := page.State()
	assert.Equal(t, OptionRetired, state.Selected)
	require.NotNil(t, state.Summary.Summary)
	assert.Equal(t, 250.0, state.Summary.Summary.TotalTonnes)
	assert.Equal(t, []StatusOption{OptionAll, OptionRetired}, fetcher.requested)
	// Positions are not refetched on filter change
	assert.Len(t, state.Positions.Positions, 2)
}

func TestPage_SummaryErrorKeepsLastSummary(t *testing.T) {
	fetcher, notifier, page := samplePage()
	page.Load(context.Background())

	fetcher.summaryErr = errors.New("status 500")
	page.SelectStatus(context.Background(), OptionRetired)

	state := page.State()
	assert.Equal(t, OptionRetired, state.Selected)
	assert.Equal(t, StateError, state.Summary.State)
	require.NotNil(t, state.Summary.Summary)
	assert.Equal(t, 1750.0, state.Summary.Summary.TotalTonnes)
	assert.Equal(t, []string{summaryErrorMessage}, notifier.descriptions())

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "Total Tonnes:         1,750")
}

func TestPage_SelectStatus_DropsStaleSummary(t *testing.T) {
	fetcher, _, page := samplePage()
	release := make(chan struct{})
	fetcher.block = map[StatusOption]chan struct{}{OptionAvailable: release}
	fetcher.started = make(chan StatusOption, 2)

	done := make(chan struct{})
	go func() {
		page.SelectStatus(context.Background(), OptionAvailable)
		close(done)
	}()
	require.Equal(t, OptionAvailable, <-fetcher.started)

	page.SelectStatus(context.Background(), OptionRetired)
	require.Equal(t, OptionRetired, <-fetcher.started)

	close(release)
	<-done

	state := page.State()
	assert.Equal(t, OptionRetired, state.Selected)
	assert.Equal(t, StateSuccess, state.Summary.State)
	assert.Equal(t, 250.0, state.Summary.Summary.TotalTonnes)
}

func TestPage_StateIsCopy(t *testing.T) {
	_, _, page := samplePage()
	page.Load(context.Background())

	state := page.State()
	state.Positions.Positions[0].ProjectName = "changed"
	state.Summary.Summary.TotalTonnes = -1

	again := page.State()
	assert.Equal(t, "Rimba Raya", again.Positions.Positions[0].ProjectName)
	assert.Equal(t, 1750.0, again.Summary.Summary.TotalTonnes)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,500", FormatNumber(1500))
	assert.Equal(t, "350", FormatNumber(350))
	assert.Equal(t, "1,234.5", FormatNumber(1234.5))
	assert.Equal(t, "$23,250", FormatCurrency(23250))
	assert.Equal(t, "$13.29", FormatPrice(13.285714))
	assert.Equal(t, "$0.00", FormatPrice(0))
}

func TestRender_Loaded(t *testing.T) {
	_, _, page := samplePage()
	page.Load(context.Background())

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "Carbon Portfolio")
	assert.Contains(t, out, "Manage and track your carbon credit positions")
	assert.Contains(t, out, "Status: All")
	assert.Contains(t, out, "Total Tonnes:         1,750")
	assert.Contains(t, out, "Total Value:          $23,250")
	assert.Contains(t, out, "Average Price/Tonne:  $13.29")
	assert.Contains(t, out, "Rimba Raya")
	assert.Contains(t, out, "Katingan Mentaya")
	assert.Contains(t, out, "Retired")
	assert.NotContains(t, out, "No positions found")
}

func TestRender_EmptyAndLoading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderState(&buf, PageState{Selected: OptionAll}))
	assert.Contains(t, buf.String(), "Loading positions...")
	assert.Contains(t, buf.String(), "Total Tonnes:         ...")

	fetcher, _, page := samplePage()
	fetcher.positions = nil
	fetcher.summaryErr = errors.New("boom")
	page.Load(context.Background())

	buf.Reset()
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "No positions found")
	assert.Contains(t, buf.String(), "No summary available")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{Env: "development", LogLevel: "info", LogFormat: "json"}, &buf)

	LogNotifier{Logger: log}.Notify(Notification{Title: "Error", Description: summaryErrorMessage, Destructive: true})

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), summaryErrorMessage)
}
