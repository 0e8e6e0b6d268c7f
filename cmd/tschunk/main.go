package main

import (
	"github.com/joho/godotenv"

	"github.com/mvp-joe/tschunk/internal/cli"
)

func main() {
	// TSCHUNK_* settings may come from a local .env file
	_ = godotenv.Load()

	cli.Execute()
}
