package main

import (
	"os"

	"github.com/goliatone/go-cms-admin/cmd/cmsadmin/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
