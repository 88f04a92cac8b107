package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/stmarys-jajpur/admitform/internal/config"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/submission"
	"github.com/stmarys-jajpur/admitform/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the settings file",
	Long: `Show or edit the admitform settings file.

Settings resolve in this order, later wins: built-in defaults, the settings
file, ADMITFORM_* environment variables, then command-line flags.`,
	// The settings file may be broken; only logging is set up here
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		path, err := settingsPath()
		if err != nil {
			return err
		}

		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.NewSettings().SaveFile(path); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Settings file written", ui.Detail{Key: "Path", Value: path})
		return nil
	},
}

var configSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <url>",
	Short: "Store the intake endpoint URL",
	Example: `  admitform config set-endpoint https://script.google.com/macros/s/AKfy.../exec
  admitform config set-endpoint http://office-pc.local:8080/exec`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := submission.ValidateEndpoint(args[0]); err != nil {
			return err
		}
		return saveEndpoint(ui.NewPrinter(cmd.OutOrStdout()), args[0])
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetEndpointCmd)
	rootCmd.AddCommand(configCmd)
}

// settingsPath is --config or the default location
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// saveEndpoint stores endpoint in the settings file. Environment overrides
// are not written back.
func saveEndpoint(printer *ui.Printer, endpoint string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	s, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	s.Endpoint = endpoint
	if err := s.SaveFile(path); err != nil {
		return err
	}

	printer.PrintSuccess("Endpoint saved",
		ui.Detail{Key: "Endpoint", Value: endpoint},
		ui.Detail{Key: "Path", Value: path},
	)
	return nil
}
