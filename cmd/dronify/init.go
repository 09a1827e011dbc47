package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlnomadpy/dronify/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()

	if initForce {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, os.ErrExist) {
			cmd.PrintErrf("Config already exists at %s (use --force to overwrite)\n", path)
			return err
		}
		return err
	}

	cmd.Printf("Config written to %s\n", path)
	return nil
}
