package main

import (
	"log/slog"
	"os"

	"github.com/soocke/traystack-go/app"
	"github.com/soocke/traystack-go/cli"
	"github.com/soocke/traystack-go/config"
)

func main() {
	rootCmd := cli.NewRootCmd(runGUI)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGUI(cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	application := app.NewApp("Tray Stack Counter", 820, 760, cfg, cfgPath, logger)
	application.Start()
	return nil
}
