package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := doExport(ctx, repo, os.Stdout); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		file, err := os.Open(*importFile)
		if err != nil {
			log.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		var albums []domain.Album
		if err := json.NewDecoder(file).Decode(&albums); err != nil {
			log.Fatalf("Decode failed: %v", err)
		}
		count := doImport(ctx, repo, albums)
		log.Printf("Imported %d albums", count)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

// doExport writes every album with its links as indented JSON
func doExport(ctx context.Context, repo ports.CatalogRepository, out io.Writer) error {
	albums, err := repo.Dump(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(albums)
}

// doImport keeps album and link ids. Albums whose slug is owned by a
// different id are skipped.
func doImport(ctx context.Context, repo ports.CatalogRepository, albums []domain.Album) int {
	count := 0
	for _, a := range albums {
		existing, err := repo.GetAlbumBySlug(ctx, a.Slug)
		if err != nil {
			log.Printf("Failed to look up %s: %v", a.Slug, err)
			continue
		}
		if existing != nil && existing.ID != a.ID {
			log.Printf("Skipping %s: slug already used by album %d", a.Slug, existing.ID)
			continue
		}

		links := a.Links
		a.Links = nil
		if err := repo.UpsertAlbum(ctx, &a); err != nil {
			log.Printf("Failed to import %s: %v", a.Slug, err)
			continue
		}
		if a.FirstPublishedAt != nil {
			if _, err := repo.ClaimSlug(ctx, domain.SlugClaim{EntityType: domain.EntityAlbum, Slug: a.Slug, EntityID: a.ID}); err != nil {
				log.Printf("Failed to claim slug %s: %v", a.Slug, err)
			}
		}

		for _, l := range links {
			l.AlbumID = a.ID
			l.Platform = nil
			if err := repo.UpsertAlbumLink(ctx, &l); err != nil {
				log.Printf("Failed to import link %d of %s: %v", l.ID, a.Slug, err)
			}
		}
		count++
	}
	return count
}
