/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/catdrift/common"
	"github.com/rotblauer/catdrift/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string
var optVerbosity string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catdrift",
	Short: "Correct device track drift against a reference track",
	Long: `catdrift fuses a drifting device track (dead reckoning, compass, step counts)
with a reference track (eg. GPS) observed at the same times.

Per sample it measures how far the device heading disagrees with the reference,
averages that disagreement over a window, and rebuilds a corrected track by
projecting from the first reference position along the drift-corrected heading.
Windows whose average disagrees too much are distrusted: those samples fall back
to the previous heading and are reported as anomalies.

Fusion settings can be given as flags or in a YAML/TOML config file (--config)
using the snake_case keys shown by 'catdrift validate'.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.catdrift.yaml)")
	rootCmd.PersistentFlags().StringVar(&optVerbosity, "verbosity", "info", "Log level (debug, info, warn, error)")

	bindFusionFlags(rootCmd.PersistentFlags())
	setConfigDefaults(viper.GetViper())
}

// bindFusionFlags defines the fusion flags on fs and binds them to their config keys.
func bindFusionFlags(fs *pflag.FlagSet) {
	def := params.DefaultFusionConfig()
	fs.Int("window-size", def.WindowSize, "Samples per drift averaging window")
	fs.Float64("anomaly-threshold", def.AnomalyThresholdDegrees, "Window drift (degrees) at or beyond which a sample is anomalous")
	fs.Float64("alignment-offset", def.AlignmentOffsetDegrees, "Fixed device mounting offset (degrees) added to every heading")
	fs.Float64("compensation-factor", def.CompensationFactor, "Multiplier applied to device step distances")
	fs.Float64("earth-radius-km", def.EarthRadiusKm, "Sphere radius for distances and projection")
	fs.String("heading-fallback", def.HeadingFallback.String(), "Heading for anomalous samples: previous or device")

	for key, flag := range configKeys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// configKeys maps config file keys to their flags.
var configKeys = map[string]string{
	"window_size":               "window-size",
	"anomaly_threshold_degrees": "anomaly-threshold",
	"alignment_offset_degrees":  "alignment-offset",
	"compensation_factor":       "compensation-factor",
	"earth_radius_km":           "earth-radius-km",
	"heading_fallback":          "heading-fallback",
}

// initConfig reads in config file if set, or $HOME/.catdrift.yaml if present.
// Environment variables are not consulted.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			slog.Warn("No home directory, skipping default config", "error", err)
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".catdrift")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
		return
	}
	slog.Debug("Using config file", "path", filepath.Clean(viper.ConfigFileUsed()))
}

// setConfigDefaults registers the fusion defaults on v,
// for a viper instance with no flags bound.
func setConfigDefaults(v *viper.Viper) {
	def := params.DefaultFusionConfig()
	v.SetDefault("window_size", def.WindowSize)
	v.SetDefault("anomaly_threshold_degrees", def.AnomalyThresholdDegrees)
	v.SetDefault("alignment_offset_degrees", def.AlignmentOffsetDegrees)
	v.SetDefault("compensation_factor", def.CompensationFactor)
	v.SetDefault("earth_radius_km", def.EarthRadiusKm)
	v.SetDefault("heading_fallback", def.HeadingFallback.String())
}

// fusionConfig resolves a validated fusion config from v.
func fusionConfig(v *viper.Viper) (*params.FusionConfig, error) {
	fallback, err := params.ParseHeadingFallback(v.GetString("heading_fallback"))
	if err != nil {
		return nil, err
	}
	cfg := &params.FusionConfig{
		WindowSize:              v.GetInt("window_size"),
		AnomalyThresholdDegrees: v.GetFloat64("anomaly_threshold_degrees"),
		AlignmentOffsetDegrees:  v.GetFloat64("alignment_offset_degrees"),
		CompensationFactor:      v.GetFloat64("compensation_factor"),
		EarthRadiusKm:           v.GetFloat64("earth_radius_km"),
		HeadingFallback:         fallback,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	level, err := common.ParseSlogLevel(optVerbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Debug("Command", "name", cmd.Name(), "args", args)
}
