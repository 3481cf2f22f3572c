package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/storely/cart-service/internal/app/api"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("cart API failed: %v", err)
	}
}
