// Command pmmiddleware runs the PresentMon-compatible telemetry
// middleware service: it loads configuration, opens the logging
// channel, and blocks serving control-channel clients until a
// termination signal arrives.
package main

import (
	"fmt"
	"os"

	"presentmw/internal/config"
	"presentmw/internal/daemon"
	"presentmw/internal/logchan"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("pmmiddleware: %w", err)
	}

	log := logchan.New(256)
	log.AttachPolicy(logchan.LevelFilter{Min: logchan.Level(cfg.Logging.Level)})
	driver, err := logOutputDriver(cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("pmmiddleware: %w", err)
	}
	log.AttachDriver(driver)
	defer log.Close()

	d := daemon.New(cfg, log)
	return d.Run(cfg.PipeNamePrefix + "_control")
}

func logOutputDriver(output string) (logchan.Driver, error) {
	if output == "" || output == "stderr" {
		return logchan.NewConsoleDriver(os.Stderr), nil
	}
	if output == "stdout" {
		return logchan.NewConsoleDriver(os.Stdout), nil
	}
	return logchan.NewFileDriver(output)
}
