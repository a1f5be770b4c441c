// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_computer/internal/app"
	"github.com/relabs-tech/motion_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./motion_config.txt", "path to configuration file")
	flag.Parse()

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(config.Get().LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Infof("starting motion-computer console (MQTT subscriber)")

	if err := app.RunConsoleMQTT(logger); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}
