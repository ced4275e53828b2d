package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeatlas/internal/scanner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Print the structural dependency graph of one source file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := scanner.New(newExtractor(), newLogger(), viper.GetInt64("scanner.max_file_bytes"))
		result, err := sc.AnalyzeFile(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Graph)
	},
}

var handlerCmd = &cobra.Command{
	Use:   "handler <file>",
	Short: "Print the handler dependency report for the first class in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := scanner.New(newExtractor(), newLogger(), viper.GetInt64("scanner.max_file_bytes"))
		result, err := sc.AnalyzeFile(args[0])
		if err != nil {
			return err
		}
		if result.Handler == nil {
			return fmt.Errorf("no class declaration found in %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Handler)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(handlerCmd)
}
