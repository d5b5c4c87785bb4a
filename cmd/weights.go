package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/samtetlow/nof1-sub000/internal/matcher"
)

var weightsOutPath string

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect and manage match dimension weights",
}

var weightsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective dimension weights",
	RunE: func(_ *cobra.Command, _ []string) error {
		w, err := loadWeights()
		if err != nil {
			return err
		}
		if w == nil {
			w = matcher.DefaultWeights()
		}
		return yaml.NewEncoder(os.Stdout).Encode(w)
	},
}

var weightsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default weights to a YAML file for tuning",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := matcher.SaveWeights(weightsOutPath, matcher.DefaultWeights()); err != nil {
			return err
		}
		zap.L().Info("weights written", zap.String("path", weightsOutPath))
		return nil
	},
}

func init() {
	weightsInitCmd.Flags().StringVar(&weightsOutPath, "out", "weights.yaml", "output path")
	weightsCmd.AddCommand(weightsShowCmd, weightsInitCmd)
	rootCmd.AddCommand(weightsCmd)
}
