package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantrell/many-futures/internal/advisor"
	"github.com/quantrell/many-futures/internal/calibrate"
	"github.com/quantrell/many-futures/internal/cli"
	"github.com/quantrell/many-futures/internal/config"
	"github.com/quantrell/many-futures/internal/model"
)

func calibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Check advisor assumptions against reference rates",
		Long: `Compare each advisor's fixed economic assumptions against a snapshot of
reference rates: is the implied equity risk premium plausible, and how far
is the assumed inflation from the observed figure?

Calibration annotates; it never changes what an advisor assumes.

Examples:
  futures calibrate                    # against the built-in snapshot
  futures calibrate --rates fred.yaml  # against your own snapshot`,
		RunE: runCalibrate,
	}

	cmd.Flags().String("rates", "", "reference rates YAML (default: built-in snapshot)")
	cmd.Flags().IntP("horizon", "H", 30, "projection horizon in years")

	return cmd
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	ratesPath, _ := cmd.Flags().GetString("rates")
	horizon, _ := cmd.Flags().GetInt("horizon")

	rates, err := config.LoadReferenceRates(ratesPath)
	if err != nil {
		return err
	}

	assumptionsByPersona := make(map[string]model.AssumptionSet)
	for _, spec := range advisor.DefaultSeats(horizon) {
		assumptionsByPersona[spec.Persona.Name] = spec.Assumptions
	}

	verdicts := calibrate.CalibrateAll(assumptionsByPersona, rates)
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCalibration(verdicts, rates))

	return nil
}
