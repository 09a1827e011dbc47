package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var commandImagePath string

var commandCmd = &cobra.Command{
	Use:   "command <text>...",
	Short: "Run a single command against the vehicle",
	Long: `Interpret and execute one natural-language command, then print the
outcome as JSON. With --image the command is planned by the vision model
against the given JPEG frame.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	commandCmd.Flags().StringVar(&commandImagePath, "image", "", "JPEG file providing visual context")
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	ctx := cmd.Context()

	// Arm the vehicle first so flight commands work from a cold start.
	if err := eng.Initialize(ctx); err != nil {
		return err
	}

	var outcome any
	if commandImagePath != "" {
		image, err := os.ReadFile(commandImagePath)
		if err != nil {
			return err
		}
		outcome = eng.HandleVision(ctx, text, image)
	} else {
		outcome = eng.HandleSimple(ctx, text)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcome)
}
