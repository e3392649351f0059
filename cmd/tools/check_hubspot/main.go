// Command check_hubspot verifies HubSpot API connectivity and credentials.
//
// Usage:
//
//	go run cmd/tools/check_hubspot/main.go
//
// Requires HUBSPOT_API_KEY environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jonathan/linktolead/internal/hubspot"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("HUBSPOT_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "ERROR: HUBSPOT_API_KEY environment variable not set")
		os.Exit(1)
	}

	client, err := hubspot.New(apiKey, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("Checking HubSpot API connectivity...")
	if err := client.TestConnection(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: API key is valid and the deals endpoint is reachable.")
}
