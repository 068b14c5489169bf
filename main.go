package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/spigell/cv-matcher/cmd"
)

func main() {
	// Optional .env with GEMINI_API_KEY / CV_MATCHER_DB for local runs.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
