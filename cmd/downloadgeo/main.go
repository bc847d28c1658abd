// Copyright Wang Wei, 2026. All rights reserved.

// Package main is the entry point for the downloadgeo CLI, a batch
// downloader for GEO (Gene Expression Omnibus) series files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ww/downloadgeo/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the downloadgeo CLI. Running it with an
// argument performs the fetch; subcommands cover everything else.
var rootCmd = &cobra.Command{
	Use:   "downloadgeo <GSE-ids | ids.txt --file>",
	Short: "Batch download GEO series files by GSE accession",
	Long: `downloadgeo fetches GEO (Gene Expression Omnibus) series files for one or
more GSE accessions: series-matrix files, raw supplementary files, or both.
Downloads land in a per-accession directory; archives can be unpacked in
place, and a short summary can be scraped from the GEO accession page.

Accessions are given as a comma-separated list, or one per line in a text
file with --file (blank lines and # comments are ignored). Malformed
accessions are reported and skipped; the remaining ones are still processed.

The exit code is 0 on full success and 1 when any requested download,
extraction, or info fetch failed.

Examples:
  downloadgeo GSE76275 --info
  downloadgeo GSE76275 --extract
  downloadgeo GSE76275,GSE11909 --matrix
  downloadgeo geo_ids.txt --file --raw --extract`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./downloadgeo.yaml or ~/.config/downloadgeo/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("downloadgeo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "downloadgeo"))
		}
	}

	viper.SetEnvPrefix("DOWNLOADGEO")
	viper.AutomaticEnv()

	viper.SetDefault("out_dir", ".")
	viper.SetDefault("timeout", defaultTimeout)
	viper.SetDefault("delay", defaultDelay)
	viper.SetDefault("user_agent", "downloadgeo/"+version)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
