package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/export"
	"github.com/samtetlow/nof1-sub000/pkg/notion"
)

var (
	runSolicitationID string
	runExport         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full match-confirm-validate pipeline for a solicitation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sol, err := st.GetSolicitation(ctx, runSolicitationID)
		if err != nil {
			return eris.Wrapf(err, "load solicitation %s", runSolicitationID)
		}
		companies, err := st.ListCompanies(ctx)
		if err != nil {
			return err
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		outcomes, err := p.Run(ctx, *sol, companies)
		if err != nil {
			return err
		}

		if err := st.SaveOutcomes(ctx, sol.ID, outcomes); err != nil {
			return err
		}
		zap.L().Info("outcomes saved",
			zap.String("solicitation", sol.ID),
			zap.Int("ranked", len(outcomes)),
		)

		if runExport {
			if cfg.Notion.Token == "" || cfg.Notion.ResultsDB == "" {
				return eris.New("notion token and results DB are required for --export (NOF1_NOTION_TOKEN, NOF1_NOTION_RESULTS_DB)")
			}
			exp := export.NewNotionExporter(notion.NewClient(cfg.Notion.Token), cfg.Notion.ResultsDB)
			if err := exp.Export(ctx, *sol, outcomes); err != nil {
				return err
			}
			zap.L().Info("outcomes exported to notion", zap.Int("pages", len(outcomes)))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	},
}

func init() {
	runCmd.Flags().StringVar(&runSolicitationID, "solicitation", "", "solicitation ID (required)")
	runCmd.Flags().BoolVar(&runExport, "export", false, "export ranked outcomes to Notion")
	_ = runCmd.MarkFlagRequired("solicitation")
	rootCmd.AddCommand(runCmd)
}
