package main

import (
	"log"

	"github.com/MrSnakeDoc/wayfare/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ wayfare failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ wayfare stopped with error: %v", err)
	}
}
