package optimize

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racestrategy/pkg/cmd/util"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/convert"
	"github.com/mpapenbr/racestrategy/pkg/optimizer"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/pkg/service"
)

var (
	maxStops   int
	workers    int
	budget     string
	threshold  float64
	compounds  []string
	useRandom  bool
	outputJSON bool
)

//nolint:funlen // by design
func NewOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "searches the pit plan with minimal race time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd)
		},
	}
	cmd.Flags().IntVar(&maxStops,
		"max-stops",
		optimizer.DefaultMaxStops,
		"max number of pit stops")
	cmd.Flags().IntVar(&workers,
		"workers",
		0,
		"number of concurrent simulations (0: number of CPUs)")
	cmd.Flags().StringVar(&budget,
		"budget",
		"",
		"time budget for the search (example: 5s)")
	cmd.Flags().Float64Var(&threshold,
		"threshold",
		0,
		"stop as soon as a plan with at most this total time is found (0: disabled)")
	cmd.Flags().StringSliceVar(&compounds,
		"compounds",
		nil,
		"compounds for pit stops (default: dry compounds except the start compound)")
	cmd.Flags().BoolVar(&useRandom,
		"scenario",
		false,
		"optimize against weather and safety car generated from --seed")
	cmd.Flags().BoolVar(&outputJSON,
		"json",
		false,
		"print result as json")
	return cmd
}

func runOptimize(cmd *cobra.Command) error {
	tm, err := util.TyreModel()
	if err != nil {
		return err
	}
	opts := []optimizer.Option{
		optimizer.WithSimulator(util.Simulator(tm)),
	}
	if workers > 0 {
		opts = append(opts, optimizer.WithWorkers(workers))
	}
	if budget != "" {
		d, err := time.ParseDuration(budget)
		if err != nil {
			return fmt.Errorf("invalid budget: %w", err)
		}
		opts = append(opts, optimizer.WithTimeBudget(d))
	}
	if threshold > 0 {
		opts = append(opts, optimizer.WithThreshold(threshold))
	}
	svc := service.NewStrategyService(optimizer.NewOptimizer(tm, opts...))
	req := &service.StrategyRequest{
		Search: optimizer.Request{
			Laps:      config.RaceLaps,
			Start:     config.StartCompound,
			Compounds: upper(compounds),
			MaxStops:  maxStops,
		},
		Seed: config.Seed,
	}
	if useRandom {
		req.Scenario = util.ScenarioConfig()
	}
	best, err := svc.Optimize(cmd.Context(), req)
	if err != nil {
		return err
	}
	if outputJSON {
		return util.PrintJSON(cmd.OutOrStdout(),
			convert.ConvertBestPlan(best))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Best plan: start %s, stops %s\n", best.Start, best.Plan)
	for _, p := range racesim.Parts(best.Result) {
		fmt.Fprintln(out, p.Output())
	}
	fmt.Fprintf(out, "Total: %s s (%d/%d candidates evaluated)\n",
		convert.Seconds(best.TotalTime), best.Evaluated, best.Candidates)
	return nil
}

func upper(arg []string) []string {
	return lo.Map(arg, func(s string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
}
