/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	evaluateCmd "github.com/mpapenbr/racestrategy/pkg/cmd/evaluate"
	optimizeCmd "github.com/mpapenbr/racestrategy/pkg/cmd/optimize"
	simulateCmd "github.com/mpapenbr/racestrategy/pkg/cmd/simulate"
	"github.com/mpapenbr/racestrategy/pkg/cmd/util"
	weatherCmd "github.com/mpapenbr/racestrategy/pkg/cmd/weather"
	"github.com/mpapenbr/racestrategy/pkg/config"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/racesim"
	"github.com/mpapenbr/racestrategy/version"
)

const envPrefix = "RSS"

var (
	cfgFile           string
	telemetryShutdown = func() {}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "rss",
	Short:   "Race strategy simulation and optimization",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := util.SetupLogger(); err != nil {
			return err
		}
		telemetryShutdown = util.SetupTelemetry()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetryShutdown()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:funlen // by design
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.rss.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules to select log output (example: \"debug:optimizer* info:*\")")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables metrics export to stdout")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryInterval,
		"telemetry-interval",
		"10s",
		"interval for metrics export")
	rootCmd.PersistentFlags().StringVar(&config.CompoundsFile,
		"compounds",
		"",
		"yaml file with compound parameters (section 'compounds')")
	rootCmd.PersistentFlags().IntVar(&config.RaceLaps,
		"laps",
		78,
		"number of race laps")
	rootCmd.PersistentFlags().StringVar(&config.StartCompound,
		"start",
		model.Soft,
		"compound at race start")
	rootCmd.PersistentFlags().Float64Var(&config.PitLoss,
		"pit-loss",
		racesim.DefaultPitLoss,
		"base pit loss in seconds")
	rootCmd.PersistentFlags().Float64Var(&config.StartFuel,
		"start-fuel",
		racesim.DefaultStartFuel,
		"fuel fraction at race start")
	rootCmd.PersistentFlags().Uint64Var(&config.Seed,
		"seed",
		1,
		"seed for weather and safety car generation")
	rootCmd.PersistentFlags().StringVar(&config.TimeOfDay,
		"time-of-day",
		"afternoon",
		"time of day (morning, afternoon, evening)")
	rootCmd.PersistentFlags().Float64Var(&config.AirTemp,
		"air-temp",
		25.0,
		"initial air temperature (Celsius)")
	rootCmd.PersistentFlags().Float64Var(&config.Humidity,
		"humidity",
		60.0,
		"initial humidity (percent)")
	rootCmd.PersistentFlags().Float64Var(&config.Precipitation,
		"precipitation",
		0.0,
		"initial precipitation (mm/h)")
	rootCmd.PersistentFlags().Float64Var(&config.CloudCover,
		"cloud-cover",
		30.0,
		"initial cloud cover (percent)")

	// add commands here
	rootCmd.AddCommand(simulateCmd.NewSimulateCmd())
	rootCmd.AddCommand(optimizeCmd.NewOptimizeCmd())
	rootCmd.AddCommand(weatherCmd.NewWeatherCmd())
	rootCmd.AddCommand(evaluateCmd.NewEvaluateCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rss" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rss")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --pit-loss to RSS_PIT_LOSS
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
