package view

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/pkg/config"
	"github.com/wonny/carbon-portfolio/pkg/httputil"
)

// StatusOption is the value of the page's status selector
type StatusOption string

const (
	OptionAll       StatusOption = "all"
	OptionAvailable StatusOption = StatusOption(contracts.StatusAvailable)
	OptionRetired   StatusOption = StatusOption(contracts.StatusRetired)
)

// StatusOptions in selector order
var StatusOptions = []StatusOption{OptionAll, OptionAvailable, OptionRetired}

// ParseStatusOption accepts one of the selector values
func ParseStatusOption(s string) (StatusOption, error) {
	for _, opt := range StatusOptions {
		if string(opt) == s {
			return opt, nil
		}
	}
	return "", fmt.Errorf("unknown status option %q (want all, available or retired)", s)
}

// Label is the capitalized selector label
func (o StatusOption) Label() string {
	r, size := utf8.DecodeRuneInString(string(o))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + string(o[size:])
}

// Client fetches portfolio data from the API
type Client struct {
	http    *httputil.Client
	baseURL string
}

// NewClient creates a client against cfg.BaseURL, e.g. http://localhost:4000/api
func NewClient(cfg config.ViewConfig, httpClient *httputil.Client) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", cfg.BaseURL)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// PositionsURL is the positions endpoint
func (c *Client) PositionsURL() string {
	return c.baseURL + "/portfolio"
}

// SummaryURL is the summary endpoint; "all" sends no status filter
func (c *Client) SummaryURL(option StatusOption) string {
	u := c.baseURL + "/portfolio/summary"
	if option != OptionAll && option != "" {
		u += "?status=" + url.QueryEscape(string(option))
	}
	return u
}

// FetchPositions loads every position
func (c *Client) FetchPositions(ctx context.Context) ([]contracts.Position, error) {
	var positions []contracts.Position
	if err := c.http.GetJSON(ctx, c.PositionsURL(), &positions); err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	return positions, nil
}

// FetchSummary loads the summary for option
func (c *Client) FetchSummary(ctx context.Context, option StatusOption) (contracts.PortfolioSummary, error) {
	var summary contracts.PortfolioSummary
	if err := c.http.GetJSON(ctx, c.SummaryURL(option), &summary); err != nil {
		return contracts.PortfolioSummary{}, fmt.Errorf("fetch portfolio summary: %w", err)
	}
	return summary, nil
}
