package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/tasktrack-io/tasktrack/internal/client/cli"
)

func main() {
	serverURL := flag.String("server", envOr("TASKTRACK_SERVER", "http://localhost:8080"), "server base URL")
	sessionDB := flag.String("session-db", envOr("TASKTRACK_SESSION_DB", "session.db"), "path to the local session database")
	flag.Parse()

	app, err := cli.NewApp(*serverURL, *sessionDB)
	if err != nil {
		log.Fatalf("failed to start client: %v", err)
	}

	app.RunREPL(context.Background(), bufio.NewScanner(os.Stdin))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
