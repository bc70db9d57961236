package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/analyzer"
	"github.com/blackwell-systems/retailmetrics/internal/output"
)

var (
	affinityVerbose bool

	affinityCmd = &cobra.Command{
		Use:   "affinity <brand>",
		Short: "Show the retailer with the strongest affinity for a brand",
		Long: `Find the retailer where the brand makes up the largest share of the
retailer's total unit volume.

A retailer's share is the units of the brand it sold divided by all units it
sold. Retailers whose total units are zero are skipped. Equal shares are
broken by retailer name.

Brand names match exactly; shorthands can be defined in the aliases file
next to config.yaml ("redbull = Red Bull").`,
		Example: `  retailmetrics affinity Monster
  retailmetrics affinity "5 Hour Energy" --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: runAffinity,
	}
)

func init() {
	affinityCmd.Flags().BoolVarP(&affinityVerbose, "verbose", "v", false, "show every retailer's share")

	RootCmd.AddCommand(affinityCmd)
}

func runAffinity(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	brand := s.aliases.Resolve(args[0])

	ds, err := s.Load()
	if err != nil {
		return err
	}

	if !affinityVerbose {
		retailer, err := analyzer.RetailerAffinity(ds, brand)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output.RenderAffinity(brand, retailer, nil))
		return nil
	}

	shares, err := analyzer.RetailerShares(ds, brand)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderAffinity(brand, shares[0].Retailer, shares))
	return nil
}
