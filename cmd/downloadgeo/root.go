// Copyright Wang Wei, 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ww/downloadgeo/internal/fetch"
	"github.com/ww/downloadgeo/internal/info"
	"github.com/ww/downloadgeo/pkg/types"
)

const (
	defaultTimeout = 30 * time.Second
	defaultDelay   = 1 * time.Second
)

func init() {
	rootCmd.Flags().Bool("matrix", false, "only download series-matrix files")
	rootCmd.Flags().Bool("raw", false, "only download raw supplementary files")
	rootCmd.Flags().Bool("extract", false, "unpack .tar and .gz files after download")
	rootCmd.Flags().Bool("file", false, "treat the argument as a text file with one accession per line")
	rootCmd.Flags().Bool("info", false, "print summary info from the GEO accession page")
	rootCmd.Flags().String("out-dir", "", "base directory for downloads (default \".\")")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	rootCmd.Flags().Duration("delay", 0, "delay between consecutive accessions (default 1s)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	matrixOnly, _ := cmd.Flags().GetBool("matrix")
	rawOnly, _ := cmd.Flags().GetBool("raw")
	doExtract, _ := cmd.Flags().GetBool("extract")
	fileMode, _ := cmd.Flags().GetBool("file")
	doInfo, _ := cmd.Flags().GetBool("info")

	// Passing both --matrix and --raw behaves like passing neither: both
	// categories are downloaded.
	mode := fetch.ModeBoth
	switch {
	case matrixOnly && !rawOnly:
		mode = fetch.ModeMatrix
	case rawOnly && !matrixOnly:
		mode = fetch.ModeRaw
	}

	var accessions, malformed []string
	if fileMode {
		var err error
		accessions, malformed, err = fetch.ReadFile(args[0])
		if err != nil {
			return err
		}
	} else {
		accessions, malformed = fetch.ParseList(args[0])
	}
	for _, bad := range malformed {
		fmt.Fprintf(os.Stderr, "invalid accession ID: %q (skipped)\n", bad)
	}
	if len(accessions) == 0 {
		return fmt.Errorf("no valid GSE accessions to process")
	}

	timeout := durationSetting(cmd, "timeout", "timeout")
	delay := durationSetting(cmd, "delay", "delay")
	outDir := stringSetting(cmd, "out-dir", "out_dir")
	userAgent := viper.GetString("user_agent")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		DownloadDelay: delay,
		OutDir:        outDir,
		Extract:       doExtract,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	result := fetch.Batch(client, accessions, mode, cfg, os.Stdout)

	infoFailed := 0
	if doInfo {
		infoCfg := types.InfoConfig{
			HTTPConfig: cfg.HTTPConfig,
			APIKey:     secretDefault("ncbi-api-key", viper.GetString("ncbi_api_key")),
		}
		for _, accession := range accessions {
			if err := info.Show(client, accession, infoCfg, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "failed: info for %s (%v)\n", accession, err)
				infoFailed++
			}
		}
	}

	if result.HasFailures() || infoFailed > 0 {
		return fmt.Errorf("%d item(s) failed", result.Failed+infoFailed)
	}
	return nil
}

// durationSetting returns the flag value when set, otherwise the config value.
func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	return viper.GetDuration(key)
}

// stringSetting returns the flag value when set, otherwise the config value.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}
