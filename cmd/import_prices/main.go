package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"skinpricer/internal/config"
	"skinpricer/internal/container"
	"skinpricer/internal/importer"
	"skinpricer/internal/repository"

	log "github.com/sirupsen/logrus"
)

func main() {
	source := flag.String("source", "", "price dump to import: a file path or an http(s) URL")
	batchSize := flag.Int("batch", 500, "records per upsert batch")
	flag.Parse()

	if *source == "" {
		log.Fatal("-source is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	container.ConfigureLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer store.Close()

	records, err := importer.Load(ctx, *source, cfg.Inventory.Timeout)
	if err != nil {
		log.Errorf("Failed to load price dump: %v", err)
		return
	}

	if err := importer.Save(ctx, store, records, *batchSize); err != nil {
		log.Errorf("Failed to import prices: %v", err)
		return
	}

	log.Infof("✅ Imported %d catalog records", len(records))
}
