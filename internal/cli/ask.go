package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-team/internal/team"
	"github.com/i474232898/weather-team/internal/weather"
)

var (
	askStrategy string
	askTimeout  time.Duration
	askJSON     bool
	askTurns    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer one weather question",
	Long: `Runs one query through the worker team and prints the report.

Strategies:
  selector   fixed intent → retrieval → presentation order (default)
  handoff    each worker names its successor
  autoplan   a planner picks the next worker after every turn

Examples:
  weather-team ask 北京今天天气怎么样
  weather-team ask --strategy handoff "上海未来5天天气"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askStrategy, "strategy", "s", "", "coordination strategy (default $TEAM_STRATEGY)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall time limit for the query")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the run result as JSON")
	askCmd.Flags().BoolVar(&askTurns, "turns", false, "print every turn before the report")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is empty")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
	defer cancel()

	res, err := a.Ask(ctx, query, askStrategy)
	out := cmd.OutOrStdout()

	if askJSON {
		data, jerr := json.MarshalIndent(res, "", "  ")
		if jerr != nil {
			return fmt.Errorf("encoding result: %w", jerr)
		}
		fmt.Fprintln(out, string(data))
		return err
	}

	if askTurns {
		for i, t := range res.Turns {
			fmt.Fprintf(out, "[%d] %s → %s\n%s\n\n", i, t.Speaker, t.Handoff, t.Content)
		}
	}
	if err != nil {
		place := ""
		if in, ierr := team.IntentFrom(res.Turns); ierr == nil {
			place = in.Place
		}
		fmt.Fprintln(out, weather.Describe(err, place))
		return err
	}
	fmt.Fprintln(out, res.Report)
	return nil
}
