package main

import (
	"os"

	"kgeval/internal/util"
	"kgeval/pkg/logger"
	"kgeval/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
