package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantrell/many-futures/internal/advisor"
	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/calibrate"
	"github.com/quantrell/many-futures/internal/cli"
	"github.com/quantrell/many-futures/internal/config"
	"github.com/quantrell/many-futures/internal/council"
	"github.com/quantrell/many-futures/internal/divergence"
	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
	"github.com/quantrell/many-futures/internal/storage"
)

func councilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "council",
		Short: "Convene the advisor council",
		Long: `Convene three advisors with deliberately different economic worldviews,
project your trajectory under each, and analyze where and why they diverge.

Advisors run concurrently; one advisor failing never sinks the session.

Examples:
  futures council --profile me.yaml              # remote providers
  futures council --profile me.yaml --offline    # no API keys needed
  futures council --profile me.yaml --save       # persist the run
  futures council --profile me.yaml --rates fred.yaml`,
		RunE: runCouncil,
	}

	cmd.Flags().StringP("profile", "p", "", "profile YAML file (required)")
	cmd.Flags().Bool("offline", false, "use rule-based advisors instead of remote providers")
	cmd.Flags().Bool("save", false, "persist the completed run")
	cmd.Flags().IntP("horizon", "H", 30, "projection horizon in years")
	cmd.Flags().Duration("timeout", 2*time.Minute, "overall council deadline")
	cmd.Flags().Duration("advisor-timeout", 45*time.Second, "per-advisor timeout")
	cmd.Flags().String("rates", "", "reference rates YAML for calibration (default: built-in snapshot)")
	_ = cmd.MarkFlagRequired("profile")

	_ = viper.BindPFlag("council.offline", cmd.Flags().Lookup("offline"))
	_ = viper.BindPFlag("council.save", cmd.Flags().Lookup("save"))
	_ = viper.BindPFlag("council.horizon", cmd.Flags().Lookup("horizon"))
	_ = viper.BindPFlag("council.timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("council.advisor_timeout", cmd.Flags().Lookup("advisor-timeout"))

	return cmd
}

func runCouncil(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	profilePath, _ := cmd.Flags().GetString("profile")
	ratesPath, _ := cmd.Flags().GetString("rates")
	offline := viper.GetBool("council.offline")
	save := viper.GetBool("council.save")
	horizon := viper.GetInt("council.horizon")

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}
	rates, err := config.LoadReferenceRates(ratesPath)
	if err != nil {
		return err
	}

	log := audit.NewLog()
	seats, closeSeats, err := buildSeats(offline, horizon, log)
	if err != nil {
		return err
	}
	defer closeSeats()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderBaseline(profile, projection.ComputeBaseline(profile), projection.Health(profile)))

	bar := cli.NewCouncilProgress(len(seats), cmd.ErrOrStderr())
	recommendations, err := council.Convene(ctx, profile, seats, log, council.Options{
		Deadline:          viper.GetDuration("council.timeout"),
		PerAdvisorTimeout: viper.GetDuration("council.advisor_timeout"),
		OnResult: func(model.Recommendation) {
			if barErr := bar.Add(1); barErr != nil {
				slog.Warn("Failed to update progress bar", "error", barErr)
			}
		},
	})
	if err != nil {
		return err
	}

	for _, rec := range recommendations {
		fmt.Fprintln(out, cli.RenderRecommendation(rec))
	}

	result, err := divergence.Synthesize(profile, recommendations)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, cli.RenderDivergence(result))

	assumptionsByPersona := make(map[string]model.AssumptionSet, len(recommendations))
	for _, rec := range recommendations {
		assumptionsByPersona[rec.Persona.Name] = rec.Assumptions
	}
	log.Append(audit.EntryCalibration, "", "", map[string]any{"source": rates.Source})
	fmt.Fprintln(out, cli.RenderCalibration(calibrate.CalibrateAll(assumptionsByPersona, rates), rates))

	if save {
		store, storeErr := initStorage(ctx)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = store.Close() }()

		id, saveErr := store.SaveRun(ctx, storage.CouncilRun{
			Profile:         profile,
			Recommendations: recommendations,
			Divergence:      &result,
			Audit:           log.Entries(),
		})
		if saveErr != nil {
			return saveErr
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Run saved as %s", id)))
	}

	return nil
}

// buildSeats assembles the stock panel, remote or offline. The returned
// closer releases provider clients and the shared rate limiter.
func buildSeats(offline bool, horizon int, log *audit.Log) ([]council.Seat, func(), error) {
	specs := advisor.DefaultSeats(horizon)
	seats := make([]council.Seat, 0, len(specs))
	var closers []func()

	if offline {
		for _, spec := range specs {
			seats = append(seats, council.Seat{
				Persona:     spec.Persona,
				Assumptions: spec.Assumptions,
				Adapter:     advisor.NewOfflineAdapter(advisor.WithOfflineAuditLog(log)),
			})
		}
		return seats, func() {}, nil
	}

	limiter := advisor.NewRateLimiter(viper.GetInt("providers.requests_per_minute"))
	closers = append(closers, limiter.Close)

	for _, spec := range specs {
		cfg, err := config.LoadGeneratorConfig(spec.Provider)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}

		gen, err := advisor.NewGenerator(cfg)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		closers = append(closers, func() { _ = gen.Close() })

		seats = append(seats, council.Seat{
			Persona:     spec.Persona,
			Assumptions: spec.Assumptions,
			Adapter: advisor.NewRemoteAdapter(gen, spec.Provider,
				advisor.WithRateLimiter(limiter),
				advisor.WithAuditLog(log)),
		})
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return seats, closeAll, nil
}
