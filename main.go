package main

import (
	"github.com/caffit/caffit/cmd/caffit"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	caffit.Execute()
}
