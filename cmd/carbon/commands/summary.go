package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/internal/portfolio"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Compute the portfolio summary from a positions file",
	Long: `Computes total tonnes, total value and the weighted-average price
per tonne locally, without a server. Positions are read from --file
(a JSON array) or the built-in sample portfolio.

Any --status value is matched exactly; unknown values yield zeros.

Example:
  go run ./cmd/carbon summary
  go run ./cmd/carbon summary --file positions.json --status retired`,
	RunE: runSummary,
}

var (
	summaryFile   string
	summaryStatus string
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryFile, "file", "", "positions JSON file (default: sample positions)")
	summaryCmd.Flags().StringVar(&summaryStatus, "status", "", "status filter (empty means all)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	positions, err := memoryPositions(summaryFile)
	if err != nil {
		return err
	}

	var opts portfolio.SummaryOptions
	if summaryStatus != "" {
		opts = portfolio.WithStatus(contracts.PositionStatus(summaryStatus))
	}

	summary := portfolio.ComputeSummary(positions, opts)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
