package main

import (
	"log"

	"github.com/planloop/planloop/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ planloop failed to start: %v", err)
	}
}
