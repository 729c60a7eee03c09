// events_tail follows the forge event bus and prints every event as it
// arrives. Useful for watching pipeline activity during local development.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgNats "forge-ai-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "forge.events.>", "Subject filter to follow")
	durable := flag.String("durable", "events-tail", "Durable consumer name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pkgNats.NewSubscriber(natsURL)
	if err != nil {
		color.Red("❌ Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = sub.Subscribe(ctx, *subject, *durable, func(ctx context.Context, subject string, payload []byte) error {
		color.Cyan("[%s] %s", time.Now().Format(time.RFC3339), subject)
		color.White("  %s", string(payload))
		return nil
	})
	if err != nil {
		color.Red("❌ Failed to subscribe: %v", err)
		os.Exit(1)
	}

	color.Green("👂 Listening on %s (durable: %s). Ctrl+C to stop.", *subject, *durable)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	color.Yellow("Shutting down.")
}
