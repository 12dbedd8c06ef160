package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/view"
	"github.com/wonny/carbon-portfolio/pkg/httputil"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Render the portfolio page from a running API",
	Long: `Fetches positions and the summary from the API and renders the
portfolio page as text. The API address comes from API_BASE_URL
or --base-url.

Example:
  go run ./cmd/carbon view
  go run ./cmd/carbon view --status available
  go run ./cmd/carbon view --base-url http://api.internal:4000/api`,
	RunE: runView,
}

var (
	viewBaseURL string
	viewStatus  string
)

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewBaseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	viewCmd.Flags().StringVar(&viewStatus, "status", string(view.OptionAll), "status filter (all|available|retired)")
}

func runView(cmd *cobra.Command, args []string) error {
	option, err := view.ParseStatusOption(viewStatus)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if viewBaseURL != "" {
		cfg.View.BaseURL = viewBaseURL
	}

	// Notifications go to stderr so the rendered page stays clean on stdout.
	log := logger.NewWithWriter(cfg, os.Stderr)

	client, err := view.NewClient(cfg.View, httputil.New(cfg, log))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.View.Timeout+time.Second)
	defer cancel()

	page := view.NewPage(client, view.LogNotifier{Logger: log})
	page.Load(ctx)
	if option != view.OptionAll {
		page.SelectStatus(ctx, option)
	}

	return page.Render(cmd.OutOrStdout())
}
