package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/analyzer"
	"github.com/blackwell-systems/retailmetrics/internal/output"
)

var (
	householdsBrand    string
	householdsRetailer string
	householdsStart    string
	householdsEnd      string

	householdsCmd = &cobra.Command{
		Use:   "households",
		Short: "Count distinct households, optionally filtered",
		Long: `Count the distinct households with at least one transaction matching
every filter given. Filters left out are not applied.

Dates are calendar days and both ends of the window are inclusive.`,
		Example: `  # Every household in the feed
  retailmetrics households

  # Households buying Monster at Walmart during 2014
  retailmetrics households --brand Monster --retailer Walmart \
    --start 2014-01-01 --end 2014-12-31`,
		Args: cobra.NoArgs,
		RunE: runHouseholds,
	}
)

func init() {
	householdsCmd.Flags().StringVar(&householdsBrand, "brand", "", "only transactions for this parent brand")
	householdsCmd.Flags().StringVar(&householdsRetailer, "retailer", "", "only transactions at this retailer")
	householdsCmd.Flags().StringVar(&householdsStart, "start", "", "first day of the window (YYYY-MM-DD)")
	householdsCmd.Flags().StringVar(&householdsEnd, "end", "", "last day of the window (YYYY-MM-DD)")

	RootCmd.AddCommand(householdsCmd)
}

func runHouseholds(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Reject bad filters before fetching anything.
	filter, err := analyzer.ParseHouseholdFilter(
		s.aliases.Resolve(householdsBrand), s.aliases.Resolve(householdsRetailer),
		householdsStart, householdsEnd, s.cfg.Dataset.DateLayouts)
	if err != nil {
		return err
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	ds, err := s.Load()
	if err != nil {
		return err
	}

	count, err := analyzer.CountHouseholds(ds, filter)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderHouseholdCount(filter, count))
	return nil
}
