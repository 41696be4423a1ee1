package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config.toml template into the data directory",
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()

		paths, err := config.Resolve()
		if err != nil {
			u.Error("Couldn't resolve the data directory: %s", err)
			return
		}
		path := config.ConfigPath(paths.DataDir)
		if err := config.CreateConfigFile(path); err != nil {
			u.Error("%s", err)
			return
		}
		u.Success("Wrote %s", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective paths for this run",
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()

		paths, err := config.Resolve()
		if err != nil {
			u.Error("Couldn't resolve the configuration: %s", err)
			return
		}

		configFile := config.ConfigPath(paths.DataDir)
		configState := configFile
		if _, err := os.Stat(configFile); err != nil {
			configState = configFile + " (not present, using defaults)"
		}

		u.KeyValue([][2]string{
			{"Data dir", paths.DataDir},
			{"Config file", configState},
			{"Contact db", paths.DBPath},
			{"Preferences", paths.PrefsPath},
			{"Search index", paths.IndexDir},
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
