package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/log"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Expose Prometheus metrics",
}

var metricsServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /metrics over HTTP until interrupted",
	Long: `Serves the build/sew/unsew/attribute counters and histograms
registered by pkg/metrics, for scraping while long-running grid
generation or batch validation jobs are in progress elsewhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())

		log.WithComponent("metrics").Info().Str("addr", addr).Msg("serving metrics")
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", addr)
		return http.ListenAndServe(addr, mux)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsServeCmd)
	metricsServeCmd.Flags().String("addr", "127.0.0.1:9090", "Address to serve /metrics on")
}
