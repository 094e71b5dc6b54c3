// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	zyonia "github.com/kyliekoshet/ZyoniaRAG"
	"github.com/kyliekoshet/ZyoniaRAG/docstore"
	"github.com/kyliekoshet/ZyoniaRAG/httpapi"
)

func main() {
	app := &cli.App{
		Name:  "zyonia",
		Usage: "Neighborhood research and enrichment system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Research the priority category for a neighborhood query",
				ArgsUsage: "<neighborhood> <query>",
				Action:    searchCommand,
				Flags: append(storageFlags(),
					&cli.BoolFlag{
						Name:  "fast",
						Usage: "Skip content enhancement and confidence scoring for a faster answer",
					},
				),
			},
			{
				Name:      "enrich",
				Usage:     "Research every category for a neighborhood",
				ArgsUsage: "<neighborhood> <query>",
				Action:    enrichCommand,
				Flags:     storageFlags(),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8000",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a text file into the document store",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.DurationFlag{
						Name:  "embed-timeout",
						Usage: "How long to wait for embedding to finish",
						Value: 2 * time.Minute,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./zyonia_db",
		},
		&cli.StringFlag{
			Name:  "results-dir",
			Usage: "Directory for saved enrichment files",
			Value: "enrichment_results",
		},
	}
}

func openSystem(c *cli.Context) (*zyonia.System, error) {
	opts := []zyonia.SystemOption{
		zyonia.WithResultsDir(c.String("results-dir")),
	}
	if c.IsSet("embedding-host") || c.IsSet("embedding-model") {
		opts = append(opts, zyonia.WithDocstoreConfig(docstore.NewConfig(
			docstore.WithEmbeddingHost(c.String("embedding-host")),
			docstore.WithEmbeddingModel(c.String("embedding-model")),
		)))
	}
	return zyonia.NewSystem(c.String("db"), opts...)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: zyonia search <neighborhood> <query>")
	}
	neighborhood := c.Args().Get(0)
	query := c.Args().Get(1)

	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	enrichment, err := sys.Coordinator().Search(context.Background(), neighborhood, query, c.Bool("fast"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printJSON(enrichment)
}

func enrichCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: zyonia enrich <neighborhood> <query>")
	}
	neighborhood := c.Args().Get(0)
	query := c.Args().Get(1)

	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	enrichment, err := sys.Coordinator().Enrich(context.Background(), neighborhood, query)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	return printJSON(enrichment)
}

func serveCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	server, err := httpapi.NewServer(sys.Coordinator(),
		httpapi.WithDocumentStore(sys.DocumentStore()),
		httpapi.WithStatus(func() any { return sys.SearchStats() }),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr := c.String("addr")
	slog.Info("serving HTTP API", "addr", addr)
	return http.ListenAndServe(addr, server)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: zyonia ingest <file>")
	}
	path := c.Args().Get(0)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	document := filepath.Base(path)
	count, err := sys.DocumentStore().Ingest(context.Background(), document, string(content))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Added %d chunks from %s, embedding...\n", count, document)

	if err := sys.DocumentStore().ReleaseTimeout(c.Duration("embed-timeout")); err != nil {
		return fmt.Errorf("embedding did not finish: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done.\n")
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
