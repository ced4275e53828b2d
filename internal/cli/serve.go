package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeatlas/internal/scanner"
	"codeatlas/internal/server"
	"codeatlas/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the codeatlas MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		st, err := store.Open(viper.GetString("store.path"), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		sc := scanner.New(newExtractor(), logger, viper.GetInt64("scanner.max_file_bytes"))
		srv := server.New(sc, st, logger, Version)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
