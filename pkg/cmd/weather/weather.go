package weather

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racestrategy/pkg/cmd/util"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/scenario"
	"github.com/mpapenbr/racestrategy/pkg/weather"
)

var (
	outputJSON bool
	draws      int
)

func NewWeatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "generates the weather forecast and safety car periods for --seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showScenario(cmd)
		},
	}
	cmd.Flags().BoolVar(&outputJSON,
		"json",
		false,
		"print scenario as json")
	cmd.Flags().IntVar(&draws,
		"sc-draws",
		1,
		"number of independent safety car draws")
	return cmd
}

func showScenario(cmd *cobra.Command) error {
	cfg := util.ScenarioConfig()
	cfg.Draws = draws
	sc, err := scenario.Generate(cfg, config.Seed)
	if err != nil {
		return err
	}
	if outputJSON {
		return util.PrintJSON(cmd.OutOrStdout(), sc)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%4s %6s %6s %6s %6s %6s  %-14s %s\n",
		"lap", "air", "track", "hum", "rain", "cloud", "intensity", "advice")
	for _, s := range sc.Weather {
		fmt.Fprintf(out, "%4d %6.1f %6.1f %6.1f %6.2f %6.1f  %-14s %s\n",
			s.Lap, s.AirTemp, s.TrackTemp, s.Humidity, s.Precipitation, s.CloudCover,
			s.RainIntensity, weather.RecommendedCompound(s.RainIntensity, s.TrackTemp))
	}
	if len(sc.SafetyCars) == 0 {
		fmt.Fprintln(out, "no safety car")
	}
	for _, i := range sc.SafetyCars {
		fmt.Fprintf(out, "safety car laps %d-%d (%s)\n", i.StartLap, i.EndLap, i.Cause)
	}
	return nil
}
