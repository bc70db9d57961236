package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/output"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the snapshot cache",
	}

	cacheListCmd = &cobra.Command{
		Use:   "list",
		Short: "List cached dataset snapshots",
		Args:  cobra.NoArgs,
		RunE:  runCacheList,
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached dataset snapshot",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	}
)

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	RootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListDatasets()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDatasetList(infos))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.DeleteAll()
	if err != nil {
		return err
	}

	noun := "snapshots"
	if n == 1 {
		noun = "snapshot"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s.\n", n, noun)
	return nil
}
