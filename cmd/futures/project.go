package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantrell/many-futures/internal/cli"
	"github.com/quantrell/many-futures/internal/config"
	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a single financial trajectory",
		Long: `Project one deterministic trajectory for a profile under a single
assumption set: year-by-year savings, debt, and net worth, plus the
estimated retirement age.

Examples:
  futures project --profile me.yaml
  futures project --profile me.yaml --return 0.07 --inflation 0.025
  futures project --profile me.yaml --horizon 40`,
		RunE: runProject,
	}

	cmd.Flags().StringP("profile", "p", "", "profile YAML file (required)")
	cmd.Flags().Float64P("return", "r", 0.065, "assumed annual market return")
	cmd.Flags().Float64P("inflation", "i", 0.03, "assumed annual inflation rate")
	cmd.Flags().IntP("horizon", "H", 30, "projection horizon in years")
	_ = cmd.MarkFlagRequired("profile")

	_ = viper.BindPFlag("project.return", cmd.Flags().Lookup("return"))
	_ = viper.BindPFlag("project.inflation", cmd.Flags().Lookup("inflation"))
	_ = viper.BindPFlag("project.horizon", cmd.Flags().Lookup("horizon"))

	return cmd
}

func runProject(cmd *cobra.Command, _ []string) error {
	profilePath, _ := cmd.Flags().GetString("profile")

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}

	assumptions := model.AssumptionSet{
		MarketReturn:  viper.GetFloat64("project.return"),
		InflationRate: viper.GetFloat64("project.inflation"),
		HorizonYears:  viper.GetInt("project.horizon"),
	}

	proj, err := projection.Project(profile, assumptions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderBaseline(profile, projection.ComputeBaseline(profile), projection.Health(profile)))
	fmt.Fprintln(out, cli.RenderProjection(proj))

	return nil
}
