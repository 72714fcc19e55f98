package main

import (
	"github.com/joho/godotenv"

	"github.com/s0up4200/engage/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
