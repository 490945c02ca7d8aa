package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quantrell/many-futures/internal/cli"
	"github.com/quantrell/many-futures/internal/common"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse saved council runs",
		Long:  `List and inspect council runs saved with 'futures council --save'.`,
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE:  runRunsList,
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show")

	return cmd
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved run in full",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunsShow,
	}
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")

	summaries, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(summaries) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No saved runs. Use 'futures council --save' to keep one."))
		return nil
	}

	fmt.Fprintf(out, "%s  %s  %s\n",
		cli.TableHeaderStyle.Render(fmt.Sprintf("%-36s", "RUN ID")),
		cli.TableHeaderStyle.Render(fmt.Sprintf("%-16s", "CREATED")),
		cli.TableHeaderStyle.Render("ADVISORS"))

	for _, s := range summaries {
		fmt.Fprintf(out, "%-36s  %-16s  %d/%d succeeded\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Succeeded, s.Seats)
	}

	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("invalid run ID %q, copy one from 'futures runs list'", args[0]), err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(
				fmt.Sprintf("no saved run with ID %s, use 'futures runs list' to see what is stored", id), err)
		}
		return fmt.Errorf("failed to load run: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Run %s, saved %s\n\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"))

	for _, rec := range run.Recommendations {
		fmt.Fprintln(out, cli.RenderRecommendation(rec))
	}

	if run.Divergence != nil {
		fmt.Fprintln(out, cli.RenderDivergence(*run.Divergence))
	}

	return nil
}
