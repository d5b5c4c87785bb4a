package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/ingest"
	"github.com/samtetlow/nof1-sub000/internal/model"
)

var (
	importJSONPath string
	importXLSXPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import company profiles from JSON or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var (
			companies []model.Company
			err       error
		)
		switch {
		case importJSONPath != "" && importXLSXPath != "":
			return eris.New("use --json or --xlsx, not both")
		case importJSONPath != "":
			companies, err = ingest.ReadCompaniesJSON(importJSONPath)
		case importXLSXPath != "":
			companies, err = ingest.ReadCompaniesXLSX(importXLSXPath)
		default:
			return eris.New("one of --json or --xlsx is required")
		}
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, c := range companies {
			if err := st.SaveCompany(ctx, c); err != nil {
				return eris.Wrapf(err, "save company %s", c.Name)
			}
		}

		zap.L().Info("import complete", zap.Int("companies", len(companies)))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importJSONPath, "json", "", "path to JSON company file")
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to XLSX company file")
	rootCmd.AddCommand(importCmd)
}
