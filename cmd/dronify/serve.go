package main

import (
	"github.com/spf13/cobra"

	"github.com/mlnomadpy/dronify/internal/server"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP command API server",
	Long: `Start the HTTP server exposing the command API:

  POST /command         interpret a text command and execute it
  POST /vision_command  plan from a command plus a camera image
  GET  /api/status      service and vehicle status
  GET  /video_feed      MJPEG camera stream`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	// Best effort: commands can re-arm later via "initialize".
	if err := eng.Initialize(cmd.Context()); err != nil {
		logger.Warn("vehicle initialization failed", "error", err)
	}

	addr := cfg.Server.Address
	if serveAddress != "" {
		addr = serveAddress
	}

	srv := server.New(eng,
		server.WithVideoFPS(cfg.Server.VideoFPS),
		server.WithModelName(cfg.LLM.Model),
		server.WithLogger(logger),
	)
	return srv.ListenAndServe(cmd.Context(), addr)
}
