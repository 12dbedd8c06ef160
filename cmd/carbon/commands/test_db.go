package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test the PostgreSQL connection",
	Long: `Connects to DATABASE_URL, pings it, runs a health check, counts
stored positions and prints connection pool statistics.

Example:
  go run ./cmd/carbon test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	fmt.Fprintf(out, "Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Fprintf(out, "  Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	fmt.Fprintln(out, "Database connection established")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintf(out, "  Healthy: %v\n", status.Healthy)
	fmt.Fprintf(out, "  Response Time: %v\n", status.ResponseTime)
	fmt.Fprintf(out, "  Timestamp: %s\n\n", status.Timestamp.Format(time.RFC3339))

	repo := portfolio.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	positions, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	summary := portfolio.ComputeSummary(positions, portfolio.SummaryOptions{})
	fmt.Fprintf(out, "Positions: %d (%.0f tonnes)\n\n", len(positions), summary.TotalTonnes)

	fmt.Fprintln(out, "Connection Pool Statistics:")
	fmt.Fprintf(out, "  Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Fprintf(out, "  Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Fprintf(out, "  Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Fprintf(out, "  Idle Connections: %d\n", status.Stats.IdleConns)
	fmt.Fprintf(out, "  Acquire Count: %d\n", status.Stats.AcquireCount)
	fmt.Fprintf(out, "  Acquire Duration: %v\n", status.Stats.AcquireDuration)

	return nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
