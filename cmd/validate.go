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
	"fmt"
	"io"
	"os"

	"github.com/rotblauer/catdrift/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate and print the resolved fusion configuration",
	Long: `Resolves the fusion configuration from flags and the config file,
validates it, and prints each setting with the config fingerprint.
The fingerprint is the ConfigHash carried on every fused output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)
		cfg, err := fusionConfig(viper.GetViper())
		if err != nil {
			return err
		}
		return printConfig(os.Stdout, cfg)
	},
}

func printConfig(w io.Writer, cfg *params.FusionConfig) error {
	hash, err := cfg.Hash()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `window_size: %d
anomaly_threshold_degrees: %v
alignment_offset_degrees: %v
compensation_factor: %v
earth_radius_km: %v
heading_fallback: %s
config_hash: %s
`, cfg.WindowSize, cfg.AnomalyThresholdDegrees, cfg.AlignmentOffsetDegrees,
		cfg.CompensationFactor, cfg.EarthRadiusKm, cfg.HeadingFallback, hash)
	return err
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
