package app

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	sourceURI string
	dbPath    string
	noCache   bool
	logLevel  string

	// RootCmd is the root command for retailmetrics
	RootCmd = &cobra.Command{
		Use:   "retailmetrics",
		Short: "Retail purchase metrics for energy drink transactions",
		Long: `retailmetrics answers three questions about a feed of retail
transactions (retailer, parent brand, household, units, dollars, date):

  • Which retailer has the strongest affinity for a brand?
  • How many distinct households bought, optionally narrowed by brand,
    retailer and date window?
  • Which brand has the top buying rate?

The feed is read from a local file, an http(s) URL or a gs:// object and
cached in a local SQLite snapshot until the source changes.

Examples:
  # Retailer with the largest share of Monster's units
  retailmetrics affinity Monster

  # Households buying Red Bull at CVS in January 2014
  retailmetrics households --brand "Red Bull" --retailer CVS \
    --start 2014-01-01 --end 2014-01-31

  # Top buying brand
  retailmetrics top-brand

  # Pick a metric interactively
  retailmetrics menu`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/retailmetrics/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&sourceURI, "source", "", "transaction feed: path, http(s):// URL or gs://bucket/object")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot cache path (default: ~/.retailmetrics/cache.db)")
	RootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "always read the source, bypassing the snapshot cache")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
