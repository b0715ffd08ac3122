package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-team/internal/geo"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List cities that resolve without a geocoder",
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}

// runCities needs no credentials, so it reads the registry directly.
func runCities(cmd *cobra.Command, _ []string) error {
	names := geo.NewRegistry().Names()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "支持的城市（%d）：\n", len(names))
	fmt.Fprintln(out, strings.Join(names, "、"))
	return nil
}
