package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/output"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

var (
	brandsCmd = &cobra.Command{
		Use:   "brands",
		Short: "List the parent brands in the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(cmd, "Brands", (*transactions.Dataset).Brands)
		},
	}

	retailersCmd = &cobra.Command{
		Use:   "retailers",
		Short: "List the retailers in the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(cmd, "Retailers", (*transactions.Dataset).Retailers)
		},
	}
)

func init() {
	RootCmd.AddCommand(brandsCmd)
	RootCmd.AddCommand(retailersCmd)
}

func runValues(cmd *cobra.Command, title string, values func(*transactions.Dataset) []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderList(title, values(ds)))
	return nil
}
