// Package cli implements the codeatlas command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeatlas/internal/graph"
	"codeatlas/pkg/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codeatlas",
	Short: "codeatlas - structural dependency graphs for TypeScript and JavaScript",
	Long: `codeatlas statically analyzes TypeScript and JavaScript sources and
produces a structural dependency graph: declarations, inheritance and
membership relationships, and call edges classified as internal project
code versus external dependencies.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.codeatlas.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("store.path", ".codeatlas.db")
	viper.SetDefault("scanner.max_file_bytes", 0)
	viper.SetDefault("analyzer.ignore_prefixes", []string{})

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".codeatlas" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".codeatlas")
	}

	viper.SetEnvPrefix("CODEATLAS")
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger builds the CLI logger honoring the verbose flag.
func newLogger() *slog.Logger {
	return logging.ForVerbosity(verbose)
}

// newExtractor builds a graph extractor from configuration.
func newExtractor() *graph.Extractor {
	return graph.NewExtractor(graph.Config{
		IgnorePrefixes: viper.GetStringSlice("analyzer.ignore_prefixes"),
	})
}
