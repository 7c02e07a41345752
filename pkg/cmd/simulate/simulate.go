package simulate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/cmd/util"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/convert"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/pkg/scenario"
)

var (
	planArg    string
	useRandom  bool
	outputJSON bool
	withLaps   bool
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulates a race for a given pit plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd)
		},
	}
	cmd.Flags().StringVarP(&planArg,
		"plan",
		"p",
		"25:HARD",
		"pit plan as lap:COMPOUND[,lap:COMPOUND...]")
	cmd.Flags().BoolVar(&useRandom,
		"scenario",
		false,
		"generate weather and safety car from --seed")
	cmd.Flags().BoolVar(&outputJSON,
		"json",
		false,
		"print result as json")
	cmd.Flags().BoolVar(&withLaps,
		"laps-detail",
		false,
		"include lap times (compressed under safety car) in json output")
	return cmd
}

func runSimulation(cmd *cobra.Command) error {
	plan, err := model.ParsePitPlan(planArg)
	if err != nil {
		return err
	}
	tm, err := util.TyreModel()
	if err != nil {
		return err
	}
	race := &racesim.Race{
		Laps:  config.RaceLaps,
		Start: config.StartCompound,
		Plan:  plan,
	}
	if useRandom {
		sc, err := scenario.Generate(util.ScenarioConfig(), config.Seed)
		if err != nil {
			return err
		}
		race.Weather = sc.Weather
		race.SafetyCars = sc.SafetyCars
		log.Debug("scenario generated",
			log.Uint64("seed", config.Seed),
			log.Any("safetyCars", sc.SafetyCars))
	}
	res, err := util.Simulator(tm).Simulate(race)
	if err != nil {
		return err
	}
	if outputJSON {
		return util.PrintJSON(cmd.OutOrStdout(),
			convert.ConvertResult(res, race.SafetyCars, withLaps))
	}
	out := cmd.OutOrStdout()
	for _, p := range racesim.Parts(res) {
		fmt.Fprintln(out, p.Output())
	}
	fmt.Fprintf(out, "Total: %s s (pit loss %s s)\n",
		convert.Seconds(res.TotalTime), convert.Seconds(res.TotalPitLoss))
	return nil
}
