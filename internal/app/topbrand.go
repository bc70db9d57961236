package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/analyzer"
	"github.com/blackwell-systems/retailmetrics/internal/output"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

const (
	rateLiteral = "literal"
	rateAverage = "average"
)

var (
	topBrandRate    string
	topBrandVerbose bool
	topBrandLimit   int

	topBrandCmd = &cobra.Command{
		Use:   "top-brand",
		Short: "Show the brand with the top buying rate",
		Long: `Find the brand with the top buying rate.

With --rate literal (the default) the buying rate of a brand is the largest
total any single household spent on it, and the brand owning the overall
largest (brand, household) total wins. Ties go to the brand name that sorts
first.

With --rate average a brand's rate is its total spend divided by the number of
households that bought it.`,
		Example: `  retailmetrics top-brand
  retailmetrics top-brand --verbose --limit 5
  retailmetrics top-brand --rate average`,
		Args: cobra.NoArgs,
		RunE: runTopBrand,
	}
)

func init() {
	topBrandCmd.Flags().StringVar(&topBrandRate, "rate", rateLiteral, "buying rate definition: literal or average")
	topBrandCmd.Flags().BoolVarP(&topBrandVerbose, "verbose", "v", false, "show the ranking behind the answer")
	topBrandCmd.Flags().IntVar(&topBrandLimit, "limit", 10, "rows to show with --verbose (0 for all)")

	RootCmd.AddCommand(topBrandCmd)
}

func runTopBrand(cmd *cobra.Command, args []string) error {
	if topBrandRate != rateLiteral && topBrandRate != rateAverage {
		return transactions.NewFieldError(transactions.ErrInvalidArgument, "rate", topBrandRate,
			fmt.Errorf("must be %q or %q", rateLiteral, rateAverage))
	}

	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if topBrandRate == rateAverage {
		if !topBrandVerbose {
			brand, err := analyzer.TopBrandByRate(ds)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Top buying brand (average per household): %s\n", brand)
			return nil
		}
		rates, err := analyzer.BrandSpendRates(ds)
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderBrandRates(rates, topBrandLimit))
		return nil
	}

	if !topBrandVerbose {
		brand, err := analyzer.TopBuyingBrand(ds)
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderTopBrand(brand, nil, 0))
		return nil
	}

	spends, err := analyzer.HouseholdSpends(ds)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.RenderTopBrand(spends[0].Brand, spends, topBrandLimit))
	return nil
}
