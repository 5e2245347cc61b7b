// Command catalog-import seeds the destination catalog from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-saferoute/internal/config"
	"github.com/mr1hm/go-saferoute/internal/logging"
	"github.com/mr1hm/go-saferoute/internal/models"
	"github.com/mr1hm/go-saferoute/internal/repository"
)

type destinationRecord struct {
	District    string `json:"district"`
	Place       string `json:"place"`
	Category    string `json:"category"`
	Budget      int    `json:"budget"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	file := flag.String("file", "static/data/destinations.json", "JSON array of destinations")
	dbPath := flag.String("db", cfg.DB.Path, "SQLite database path")
	flag.Parse()

	db, err := repository.NewSQLiteDB(*dbPath)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(*file)
	if err != nil {
		logging.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	added, skipped, err := importDestinations(context.Background(), db, f)
	if err != nil {
		logging.Fatalf("Import failed: %v", err)
	}

	slog.Info("catalog import complete", "file", *file, "db", *dbPath, "added", added, "skipped", skipped)
}

// importDestinations adds every record in r. Records the catalog rejects as
// invalid are logged and skipped; any other error stops the import.
func importDestinations(ctx context.Context, repo repository.DestinationRepository, r io.Reader) (added, skipped int, err error) {
	var records []destinationRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, 0, fmt.Errorf("error decoding destinations: %w", err)
	}

	for i, rec := range records {
		d := &models.Destination{
			District:    rec.District,
			Place:       rec.Place,
			Category:    models.Category(rec.Category),
			Budget:      rec.Budget,
			Description: rec.Description,
			ImageURL:    rec.ImageURL,
		}

		if err := repo.AddDestination(ctx, d); err != nil {
			if errors.Is(err, repository.ErrInvalidDestination) {
				slog.Warn("skipping destination", "index", i, "place", rec.Place, "error", err)
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}

	return added, skipped, nil
}
