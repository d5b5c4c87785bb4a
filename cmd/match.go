package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchSolicitationID string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score all stored companies against a solicitation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sol, err := st.GetSolicitation(ctx, matchSolicitationID)
		if err != nil {
			return eris.Wrapf(err, "load solicitation %s", matchSolicitationID)
		}
		companies, err := st.ListCompanies(ctx)
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			return eris.New("no companies in store, run import first")
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		results := p.Match(*sol, companies)

		zap.L().Info("match complete",
			zap.String("solicitation", sol.ID),
			zap.Int("companies", len(results)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchSolicitationID, "solicitation", "", "solicitation ID (required)")
	_ = matchCmd.MarkFlagRequired("solicitation")
	rootCmd.AddCommand(matchCmd)
}
