package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/export"
	"github.com/samtetlow/nof1-sub000/pkg/notion"
)

var exportSolicitationID string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored pipeline outcomes to Notion",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" {
			return eris.New("notion token is required (NOF1_NOTION_TOKEN)")
		}
		if cfg.Notion.ResultsDB == "" {
			return eris.New("notion results DB ID is required (NOF1_NOTION_RESULTS_DB)")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sol, err := st.GetSolicitation(ctx, exportSolicitationID)
		if err != nil {
			return eris.Wrapf(err, "load solicitation %s", exportSolicitationID)
		}
		outcomes, err := st.ListOutcomes(ctx, sol.ID)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			return eris.New("no stored outcomes, run the pipeline first")
		}

		exp := export.NewNotionExporter(notion.NewClient(cfg.Notion.Token), cfg.Notion.ResultsDB)
		if err := exp.Export(ctx, *sol, outcomes); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("solicitation", sol.ID),
			zap.Int("pages", len(outcomes)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSolicitationID, "solicitation", "", "solicitation ID (required)")
	_ = exportCmd.MarkFlagRequired("solicitation")
	rootCmd.AddCommand(exportCmd)
}
