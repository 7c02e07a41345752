package evaluate

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racestrategy/pkg/cmd/util"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/convert"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/scenario"
)

var (
	planArg    string
	runs       int
	workers    int
	outputJSON bool
)

func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "evaluates a pit plan over many generated scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd)
		},
	}
	cmd.Flags().StringVarP(&planArg,
		"plan",
		"p",
		"25:HARD",
		"pit plan as lap:COMPOUND[,lap:COMPOUND...]")
	cmd.Flags().IntVar(&runs,
		"runs",
		100,
		"number of scenarios (seeds --seed, --seed+1, ...)")
	cmd.Flags().IntVar(&workers,
		"workers",
		runtime.GOMAXPROCS(0),
		"number of concurrent simulations")
	cmd.Flags().BoolVar(&outputJSON,
		"json",
		false,
		"print summary as json")
	return cmd
}

func runEvaluate(cmd *cobra.Command) error {
	plan, err := model.ParsePitPlan(planArg)
	if err != nil {
		return err
	}
	tm, err := util.TyreModel()
	if err != nil {
		return err
	}
	summary, err := scenario.Evaluate(cmd.Context(), util.Simulator(tm), &scenario.EvalRequest{
		Config:   *util.ScenarioConfig(),
		Start:    config.StartCompound,
		Plan:     plan,
		BaseSeed: config.Seed,
		Runs:     runs,
		Workers:  workers,
	})
	if err != nil {
		return err
	}
	if outputJSON {
		return util.PrintJSON(cmd.OutOrStdout(), summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"%d runs: mean %s s, stddev %s s, min %s s, max %s s, safety car in %d runs\n",
		summary.Runs, convert.Seconds(summary.Mean), convert.Seconds(summary.StdDev),
		convert.Seconds(summary.Min), convert.Seconds(summary.Max), summary.SafetyCarRuns)
	return nil
}
