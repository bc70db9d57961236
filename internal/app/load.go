package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/output"
)

var (
	loadForce bool

	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Fetch the transaction feed and cache it",
		Long: `Fetch and parse the transaction feed, store it in the snapshot cache
and print a summary of what was loaded.

An up-to-date snapshot is reused unless --force is given.`,
		Example: `  retailmetrics load
  retailmetrics load --source gs://my-bucket/trips.csv --force`,
		Args: cobra.NoArgs,
		RunE: runLoad,
	}
)

func init() {
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "discard any cached snapshot first")

	RootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if loadForce && s.cache != nil {
		if err := s.cache.Invalidate(); err != nil {
			return fmt.Errorf("failed to discard snapshot: %w", err)
		}
	}

	spinner := output.NewSpinner(cmd.ErrOrStderr(), "Loading "+s.source.URI())
	spinner.Start()
	ds, err := s.Load()
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDatasetSummary(s.source.URI(), ds))
	return nil
}
