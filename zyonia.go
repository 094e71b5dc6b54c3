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


// Package zyonia wires the neighborhood research system together: the
// BadgerDB-backed stores, the SearxNG search client, the enrichment
// coordinator and the document store.
package zyonia

import (
	"log/slog"

	"github.com/kyliekoshet/ZyoniaRAG/docstore"
	"github.com/kyliekoshet/ZyoniaRAG/enrich"
	"github.com/kyliekoshet/ZyoniaRAG/results"
	"github.com/kyliekoshet/ZyoniaRAG/search"
	"github.com/kyliekoshet/ZyoniaRAG/search/searx"
	"github.com/kyliekoshet/ZyoniaRAG/storage"
	"github.com/kyliekoshet/ZyoniaRAG/storage/badger"
)

// System holds the wired components of one running instance.
type System struct {
	backend       *badger.Backend
	chunkRepo     storage.ChunkRepository
	envelopeCache storage.EnvelopeCache
	searx         *searx.Client
	orchestrator  *search.Orchestrator
	coordinator   *enrich.Coordinator
	store         *docstore.Store
	saver         *results.Saver
	logger        *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	inMemory       bool
	settings       search.Settings
	resultsDir     string
	docstoreConfig *docstore.Config
	instances      []string
}

// WithInMemory opens the storage backend in memory. Used by tests and
// throwaway runs.
func WithInMemory() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// WithSettings replaces the search settings.
func WithSettings(settings search.Settings) SystemOption {
	return func(o *systemOptions) {
		o.settings = settings
	}
}

// WithResultsDir sets the directory enrichment files are saved to.
func WithResultsDir(dir string) SystemOption {
	return func(o *systemOptions) {
		o.resultsDir = dir
	}
}

// WithDocstoreConfig replaces the embedding service configuration.
func WithDocstoreConfig(config *docstore.Config) SystemOption {
	return func(o *systemOptions) {
		o.docstoreConfig = config
	}
}

// WithSearxInstances replaces the SearxNG instance list.
func WithSearxInstances(instances []string) SystemOption {
	return func(o *systemOptions) {
		o.instances = instances
	}
}

// NewSystem opens storage at filePath and wires every component.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		settings:       search.DefaultSettings(),
		docstoreConfig: docstore.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	envelopeCache, err := badger.NewEnvelopeCache(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	var searxOpts []searx.Option
	if len(options.instances) > 0 {
		searxOpts = append(searxOpts, searx.WithInstances(options.instances))
	}
	searxClient, err := searx.NewClient(searxOpts...)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := search.NewOrchestrator(searxClient)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	saverOpts := []results.Option{}
	if options.resultsDir != "" {
		saverOpts = append(saverOpts, results.WithDir(options.resultsDir))
	}
	saver, err := results.NewSaver(saverOpts...)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	coordinator, err := enrich.NewCoordinator(orchestrator,
		enrich.WithSettings(options.settings),
		enrich.WithCache(envelopeCache),
		enrich.WithSaver(saver),
	)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder, err := docstore.NewOpenAIEmbedder(options.docstoreConfig)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	store, err := docstore.NewStore(chunkRepo, embedder)
	if err != nil {
		envelopeCache.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:       backend,
		chunkRepo:     chunkRepo,
		envelopeCache: envelopeCache,
		searx:         searxClient,
		orchestrator:  orchestrator,
		coordinator:   coordinator,
		store:         store,
		saver:         saver,
		logger:        slog.Default(),
	}, nil
}

// Close releases the worker pool and storage resources.
func (s *System) Close() error {
	s.store.Release()

	if err := s.envelopeCache.Close(); err != nil {
		s.logger.Error("error closing envelope cache", "err", err)
		return err
	}
	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Coordinator returns the enrichment coordinator.
func (s *System) Coordinator() *enrich.Coordinator {
	return s.coordinator
}

// DocumentStore returns the document store.
func (s *System) DocumentStore() *docstore.Store {
	return s.store
}

// ChunkRepository returns the chunk repository.
func (s *System) ChunkRepository() storage.ChunkRepository {
	return s.chunkRepo
}

// SearchStats reports SearxNG instance health.
func (s *System) SearchStats() searx.Stats {
	return s.searx.Stats()
}
