package main

import (
	"context"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airtalk-service/internal/domain/entity"
	domainrepo "airtalk-service/internal/domain/repository"
	"airtalk-service/internal/infrastructure/config"
	"airtalk-service/internal/infrastructure/persistence"
	"airtalk-service/internal/interface/repository"
	"airtalk-service/pkg/logger"
)

// corpusStore is a corpus backend that supports both directions.
type corpusStore interface {
	domainrepo.CorpusWriter
	domainrepo.CorpusReader
}

// loadFacts builds the fact table: defaults, then the YAML override file,
// then the relational reference store when one is configured.
func loadFacts(ctx context.Context, cfg *config.Config, log logger.Logger) (*entity.FactTable, error) {
	facts := entity.DefaultFactTable()
	if cfg.FactFile != "" {
		var err error
		if facts, err = entity.LoadFactTable(cfg.FactFile); err != nil {
			return nil, err
		}
		log.Info("Loaded fact table", "path", cfg.FactFile)
	}

	if cfg.PostgresURI != "" {
		db, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		refs := repository.NewGormReferenceRepository(db)
		airlines, err := refs.Airlines(ctx)
		if err != nil {
			return nil, err
		}
		airports, err := refs.Airports(ctx)
		if err != nil {
			return nil, err
		}
		firstNames, err := refs.FirstNames(ctx)
		if err != nil {
			return nil, err
		}
		lastNames, err := refs.LastNames(ctx)
		if err != nil {
			return nil, err
		}
		facts.ApplyReference(airlines, airports, firstNames, lastNames)
		log.Info("Applied reference tables",
			"airlines", len(airlines), "airports", len(airports),
			"firstNames", len(firstNames), "lastNames", len(lastNames))
	}

	if err := facts.Validate(); err != nil {
		return nil, err
	}
	return facts, nil
}

// newCorpusStore picks the corpus backend: MongoDB when a DSN is set, S3 when
// a bucket is set, line-aligned files otherwise.
func newCorpusStore(ctx context.Context, cfg *config.Config, dataPath, kbPath, runID string, log logger.Logger) (corpusStore, error) {
	if cfg.MongoURI != "" {
		db, err := persistence.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		log.Info("Using MongoDB corpus store", "db", cfg.MongoDB, "collection", cfg.MongoCollection)
		return repository.NewMongoCorpusRepository(db, cfg.MongoCollection, runID, log), nil
	}
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		log.Info("Using S3 corpus store", "bucket", cfg.S3Bucket)
		return repository.NewS3CorpusRepository(s3.NewFromConfig(awsCfg), cfg.S3Bucket, dataPath, kbPath, log), nil
	}
	log.Info("Using file corpus store", "data", dataPath, "kb", kbPath)
	return repository.NewFileCorpusRepository(dataPath, kbPath, log), nil
}

// startMetricsServer exposes /metrics and /health. The returned server is
// already listening.
func startMetricsServer(cfg *config.Config, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting metrics server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server error", "error", err)
		}
	}()
	return server
}
