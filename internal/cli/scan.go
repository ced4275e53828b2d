package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeatlas/internal/scanner"
	"codeatlas/internal/store"
	"codeatlas/util"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Index a workspace into the snapshot store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		root := ""
		if len(args) == 1 {
			root = args[0]
		} else {
			var err error
			root, err = util.FindGitRoot()
			if err != nil {
				return fmt.Errorf("failed to locate workspace root: %w", err)
			}
		}

		st, err := store.Open(viper.GetString("store.path"), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		sc := scanner.New(newExtractor(), logger, viper.GetInt64("scanner.max_file_bytes"))
		results, err := sc.Scan(cmd.Context(), root)
		if err != nil {
			return err
		}

		snapshotID, err := st.NewSnapshot(cmd.Context(), root)
		if err != nil {
			return err
		}

		nodes, edges, handlers := 0, 0, 0
		var files []string
		for _, r := range results {
			if err := st.SaveGraph(cmd.Context(), snapshotID, r.RelPath, r.Graph); err != nil {
				return err
			}
			nodes += len(r.Graph.Nodes)
			edges += len(r.Graph.Edges)
			if r.Handler != nil {
				if err := st.SaveHandler(cmd.Context(), snapshotID, r.RelPath, r.Handler); err != nil {
					return err
				}
				handlers++
			}
			files = append(files, r.RelPath)
		}
		if err := st.PruneStaleFiles(cmd.Context(), snapshotID, files); err != nil {
			logger.Warn("failed to prune stale files", "error", err)
		}

		fmt.Printf("Indexed %d files: %d nodes, %d edges, %d handlers (snapshot %s)\n",
			len(results), nodes, edges, handlers, snapshotID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
