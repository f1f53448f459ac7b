// 数据准备工具：下载或读取 OWID 总表，拆分为看板使用的国家、大洲与世界地图文件
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"covid-dash/internal/config"
	"covid-dash/internal/dataset"
	"covid-dash/internal/logger"

	"github.com/spf13/cobra"
)

var (
	dataDir  string
	srcURL   string
	fetch    bool
	timeout  time.Duration
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "dataset-split",
		Short: "Prepare dashboard data files from the OWID master table",
		Long: `Split owid-covid-data.csv into the files the dashboard reads:

  countries-data/<location>.csv   full time series per country
  continent-data/<continent>.csv  latest row per country of the continent
  world_map_data.csv              Code, Country, Total Cases

With --fetch the master table is downloaded first.`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	config.LoadEnvFiles()
	cfg := config.FromEnv()
	rootCmd.Flags().StringVar(&dataDir, "data-dir", cfg.DataDir, "Data directory (DATA_DIR)")
	rootCmd.Flags().StringVar(&srcURL, "url", envOr("SRC_URL", dataset.DefaultSourceURL), "Master table URL (SRC_URL)")
	rootCmd.Flags().BoolVar(&fetch, "fetch", false, "Download the master table before splitting")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Download timeout")
	rootCmd.Flags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	l := logger.SetupWith(logLevel, os.Getenv("LOG_FORMAT"), os.Stderr)
	p := dataset.Paths{DataDir: dataDir}
	if fetch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if _, err := p.Fetch(ctx, &http.Client{}, srcURL); err != nil {
			return err
		}
	}
	res, err := p.Split()
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		l.Warn("split_skipped", "name", s)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
