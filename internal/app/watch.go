package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/ingest"
	"github.com/blackwell-systems/retailmetrics/internal/output"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
	"github.com/blackwell-systems/retailmetrics/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the feed whenever the local source file changes",
	Long: `Watch a local transaction file and reload it whenever it is written.

Each reload replaces the cached snapshot and prints a summary of the new
dataset. Runs in the foreground until interrupted (Ctrl+C).

Only file sources can be watched.`,
	Example: `  retailmetrics watch --source ./trips.csv`,
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

// uncachedReloader lets the watcher drive a loader when caching is off.
type uncachedReloader struct {
	ingest.Loader
}

func (uncachedReloader) Invalidate() error { return nil }

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	file, ok := s.source.(*ingest.FileSource)
	if !ok {
		return transactions.NewFieldError(transactions.ErrInvalidArgument, "source", s.source.URI(),
			fmt.Errorf("watch requires a local file"))
	}

	var r watcher.Reloader = uncachedReloader{s.loader}
	if s.cache != nil {
		r = s.cache
	}

	ds, err := r.Load(s.ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderDatasetSummary(file.URI(), ds))

	w, err := watcher.New(file.Path, r)
	if err != nil {
		return err
	}
	w.OnReload = func(ds *transactions.Dataset, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderDatasetSummary(file.URI(), ds))
	}

	fmt.Fprintf(out, "\nWatching %s (Ctrl+C to stop)\n", w.Path())
	return w.Run(s.ctx)
}
