package view

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/config"
	"github.com/wonny/carbon-portfolio/pkg/httputil"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.Config{View: config.ViewConfig{BaseURL: baseURL, Timeout: 2 * time.Second}}
	client, err := NewClient(cfg.View, httputil.New(cfg, logger.Nop()).DisableRetry())
	require.NoError(t, err)
	return client
}

func TestParseStatusOption(t *testing.T) {
	tests := []struct {
		input   string
		want    StatusOption
		wantErr bool
	}{
		{"all", OptionAll, false},
		{"available", OptionAvailable, false},
		{"retired", OptionRetired, false},
		{"Available", "", true},
		{"", "", true},
		{"pending", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatusOption(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusOption_Label(t *testing.T) {
	assert.Equal(t, "All", OptionAll.Label())
	assert.Equal(t, "Available", OptionAvailable.Label())
	assert.Equal(t, "Retired", OptionRetired.Label())
	assert.Equal(t, "", StatusOption("").Label())

	label := StatusOption("émis").Label()
	assert.Equal(t, "Émis", label)
	assert.True(t, utf8.ValidString(label))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:4000", "/api", "://bad"} {
		_, err := NewClient(config.ViewConfig{BaseURL: base}, nil)
		assert.Error(t, err, base)
	}
}

func TestClient_URLs(t *testing.T) {
	client := newTestClient(t, "http://api.example.com/api/")

	assert.Equal(t, "http://api.example.com/api/portfolio", client.PositionsURL())
	assert.Equal(t, "http://api.example.com/api/portfolio/summary", client.SummaryURL(OptionAll))
	assert.Equal(t, "http://api.example.com/api/portfolio/summary?status=available", client.SummaryURL(OptionAvailable))
	assert.Equal(t, "http://api.example.com/api/portfolio/summary?status=retired", client.SummaryURL(OptionRetired))
}

func TestClient_FetchPositions(t *testing.T) {
	positions := []contracts.Position{
		{ID: "p1", ProjectName: "Kasigau Corridor", Tonnes: 100, PricePerTonne: 20, Status: contracts.StatusAvailable, Vintage: 2021},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(positions)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL+"/api").FetchPositions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, positions, got)
}

func TestClient_FetchSummary_Query(t *testing.T) {
	var gotQuery []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio/summary", r.URL.Path)
		gotQuery = append(gotQuery, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"totalTonnes":300,"totalValue":7500,"averagePricePerTonne":25}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/api")
	for _, opt := range StatusOptions {
		summary, err := client.FetchSummary(context.Background(), opt)
		require.NoError(t, err)
		assert.Equal(t, contracts.PortfolioSummary{TotalTonnes: 300, TotalValue: 7500, AveragePricePerTonne: 25}, summary)
	}

	assert.Equal(t, []string{"", "status=available", "status=retired"}, gotQuery)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Failed to compute portfolio summary"}`))
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			status: http.StatusNotFound,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"totalTonnes":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := newTestClient(t, srv.URL+"/api")

			_, err := client.FetchSummary(context.Background(), OptionAll)
			require.Error(t, err)

			var statusErr *httputil.StatusError
			if tt.status != 0 {
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.status, statusErr.StatusCode)
			} else {
				assert.False(t, errors.As(err, &statusErr))
			}

			_, err = client.FetchPositions(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	_, err := newTestClient(t, base).FetchPositions(context.Background())
	assert.Error(t, err)
}
