package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"airtalk-service/internal/infrastructure/config"
	"airtalk-service/internal/infrastructure/router"
	"airtalk-service/internal/usecase"
	"airtalk-service/pkg/logger"
)

var (
	scoreMetric  string
	scoreData    string
	scoreKB      string
	scoreRefData string
	scoreRefKB   string
	scoreRun     string
)

// scoreCmd evaluates a corpus of predicted actions
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a corpus against its expected actions",
	Long: `Evaluates a corpus with one of the metrics:

  reward  blended name, flight and status score
  name    customer name token F1
  flight  flight commitment closeness
  status  outcome status accuracy
  kl      per-order n-gram divergence against a reference corpus

The kl metric additionally needs --ref-data and --ref-kb pointing at the
reference corpus.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreMetric, "metric", "m", usecase.MetricReward, "metric to compute")
	scoreCmd.Flags().StringVar(&scoreData, "data", "", "corpus data path or object key")
	scoreCmd.Flags().StringVar(&scoreKB, "kb", "", "corpus kb path or object key")
	scoreCmd.Flags().StringVar(&scoreRefData, "ref-data", "", "reference corpus data path (kl only)")
	scoreCmd.Flags().StringVar(&scoreRefKB, "ref-kb", "", "reference corpus kb path (kl only)")
	scoreCmd.Flags().StringVar(&scoreRun, "run", "", "generation run id (MongoDB store only)")
}

func runScore(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(verbose)
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	dataPath, kbPath := cfg.OutputData, cfg.OutputKB
	if cfg.S3Bucket != "" {
		dataPath, kbPath = cfg.S3DataKey, cfg.S3KBKey
	}
	if scoreData != "" {
		dataPath = scoreData
	}
	if scoreKB != "" {
		kbPath = scoreKB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	facts, err := loadFacts(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to build fact table", "error", err)
	}
	scorer := usecase.NewRewardScorer(facts)

	metricRouter := router.NewMetricRouter(log)
	for _, metric := range []string{usecase.MetricReward, usecase.MetricName, usecase.MetricFlight, usecase.MetricStatus} {
		metricRouter.Register(usecase.NewRewardMetricHandler(scorer, metric, log))
	}
	if scoreRefData != "" && scoreRefKB != "" {
		reference, err := newCorpusStore(ctx, cfg, scoreRefData, scoreRefKB, scoreRun, log)
		if err != nil {
			log.Fatal("Failed to open reference corpus", "error", err)
		}
		metricRouter.Register(usecase.NewKLMetricHandler(
			reference, usecase.SimpleTokenizer{},
			cfg.KLMaxOrder, cfg.KLFreqThreshold, cfg.KLWorkers, log))
	}

	// Resolve the handler before touching any corpus data so a typo in the
	// metric name fails fast.
	handler := metricRouter.GetHandler(scoreMetric)
	if handler == nil {
		log.Fatal("Unknown metric", "metric", scoreMetric)
	}

	store, err := newCorpusStore(ctx, cfg, dataPath, kbPath, scoreRun, log)
	if err != nil {
		log.Fatal("Failed to open corpus store", "error", err)
	}

	result, err := handler.Compute(ctx, store)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
