// Command leadctl submits leads to a running site and prints its structured data.
package main

import (
	"os"

	"github.com/joho/godotenv"

	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(appconfig.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}
