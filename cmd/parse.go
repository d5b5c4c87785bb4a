package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/parser"
)

var (
	parseFile string
	parseID   string
	parseSave bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a solicitation text file into structured requirements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		text, err := os.ReadFile(parseFile)
		if err != nil {
			return eris.Wrap(err, "read solicitation file")
		}

		sol := parser.Parse(string(text))
		if parseID != "" {
			sol.ID = parseID
		}

		if parseSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveSolicitation(ctx, sol); err != nil {
				return err
			}
			zap.L().Info("solicitation saved",
				zap.String("id", sol.ID),
				zap.String("title", sol.Title),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFile, "file", "", "path to solicitation text file (required)")
	parseCmd.Flags().StringVar(&parseID, "id", "", "solicitation ID (generated if empty)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "persist the parsed solicitation")
	_ = parseCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(parseCmd)
}
