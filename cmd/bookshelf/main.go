package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bookwyrm/bookshelf-system/internal/client/api"
	"github.com/bookwyrm/bookshelf-system/internal/client/cli"
	"github.com/bookwyrm/bookshelf-system/internal/client/session"
	"github.com/bookwyrm/bookshelf-system/pkg/logger"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "bookshelf server base URL")
	sessionPath := flag.String("session", defaultSessionPath(), "path of the local session file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr})

	client := api.New(*server)
	store := session.NewStore(client, session.NewFileStore(*sessionPath), log)

	cli.NewApp(client, store).Run(ctx)
	fmt.Println("Bye!")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookshelf/session.json"
	}
	return filepath.Join(home, ".bookshelf", "session.json")
}
