package main

import (
	"context"
	"fmt"
	"os"
	"time"
	"transit/domain/app"
	"transit/domain/mode"
	infralogging "transit/infrastructure/logging"
	"transit/infrastructure/settings"
	"transit/presentation/mode_selection"
	"transit/presentation/runners/probe"
	"transit/presentation/runners/serve"
	"transit/presentation/runners/version"
	"transit/presentation/signals/shutdown"
)

const statsInterval = 30 * time.Second

func main() {
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	args := mode_selection.NewArgsAppMode(os.Args)
	selectedMode, selectedModeErr := args.Mode()
	if selectedModeErr != nil {
		fmt.Println(selectedModeErr)
		printUsage()
		os.Exit(1)
	}

	file, fileErr := loadFile(args.ConfigPath())
	if fileErr != nil {
		fmt.Println(fileErr)
		os.Exit(1)
	}
	logger := infralogging.NewNamedLogger(file.Logger)

	shutdown.NewHandler(appCtx, appCtxCancel, shutdown.NewDefaultProvider(), shutdown.NewOSNotifier(), logger).Handle()

	var runErr error
	switch selectedMode {
	case mode.Probe:
		runErr = probe.NewRunner(file.Settings, logger, nil).Run(appCtx)
	case mode.Serve:
		runErr = serve.NewRunner(file, logger, statsInterval).Run(appCtx)
	case mode.Version:
		runErr = version.NewRunner(os.Stdout).Run(appCtx)
	}
	if runErr != nil {
		logger.Printf("%s: %v", app.Name, runErr)
		appCtxCancel()
		os.Exit(1)
	}
}

func loadFile(path string) (settings.File, error) {
	if path == "" {
		return settings.File{Settings: settings.Default()}, nil
	}
	return settings.Load(path)
}

func printUsage() {
	fmt.Printf(`Usage: %s <mode> [settings.json|settings.yaml]
Modes:
  probe    - run the loopback scenarios and report PASS/FAIL
  serve    - bind the configured listeners and echo received data
  version  - print the version
`, app.Name)
}
