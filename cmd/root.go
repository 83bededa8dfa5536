package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// startupParams are the settings shared by every subcommand. Values come
// from flags, optionally overridden by a viper config file.
type startupParams struct {
	cfgFile string
	verbose bool
	seed    int64
	out     *log.Logger
}

var sp = &startupParams{
	out: log.New(os.Stdout, "", 0),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arupc",
	Short: "Integrated acoustic/point-count abundance model MCMC",
	Long: `arupc fits a hierarchical abundance model that fuses automated
acoustic detections, human point counts, and manual validation counts,
using a purpose-built Metropolis-within-Gibbs sampler. Among other
features:

  - Per-block adaptive random-walk Metropolis with burn-in freezing
  - Exact conjugate updates for the day-effect layer
  - Posterior-predictive Bayesian p-values per data layer
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if sp.cfgFile == "" {
			return nil
		}
		viper.SetConfigFile(sp.cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
		if sp.verbose {
			sp.out.Printf("Using config file %s\n", viper.ConfigFileUsed())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&sp.cfgFile, "config", "c", "", "config file (YAML, optional)")
	rootCmd.PersistentFlags().BoolVarP(&sp.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	rootCmd.PersistentFlags().Int64VarP(&sp.seed, "seed", "r", 1, "Random seed to use")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
