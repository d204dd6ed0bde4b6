package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/infrastructure/config"
	"airtalk-service/internal/usecase"
	"airtalk-service/pkg/logger"
	"airtalk-service/pkg/metrics"
)

var (
	genSamples int
	genSeed    int64
	genData    string
	genKB      string
)

// contextGenCmd samples intents, knowledge bases and expected actions
var contextGenCmd = &cobra.Command{
	Use:   "contextgen",
	Short: "Generate intent and knowledge base pairs with expected actions",
	Long: `Samples customer intents and the knowledge base the agent would see,
derives the action a perfect agent would take, and persists the aligned
pairs to the configured corpus store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGeneration(false)
	},
}

// simulateCmd additionally runs the scripted dialogue for every sample
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate full dialogues on top of sampled contexts",
	Long: `Runs contextgen sampling and plays out each conversation with the
template state machine, persisting dialogue, final action and expected
action together.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGeneration(true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{contextGenCmd, simulateCmd} {
		cmd.Flags().IntVarP(&genSamples, "samples", "n", 0, "number of samples (overrides NUM_SAMPLES)")
		cmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (overrides SEED)")
		cmd.Flags().StringVar(&genData, "data", "", "data output path or object key")
		cmd.Flags().StringVar(&genKB, "kb", "", "kb output path or object key")
	}
}

func runGeneration(withDialogue bool) error {
	log := logger.NewLogger(verbose)
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if genSamples > 0 {
		cfg.NumSamples = genSamples
	}
	if genSeed != 0 {
		cfg.Seed = genSeed
	}
	dataPath, kbPath := cfg.OutputData, cfg.OutputKB
	if cfg.S3Bucket != "" {
		dataPath, kbPath = cfg.S3DataKey, cfg.S3KBKey
	}
	if genData != "" {
		dataPath = genData
	}
	if genKB != "" {
		kbPath = genKB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	facts, err := loadFacts(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to build fact table", "error", err)
	}

	m := metrics.NewMetrics("airtalk")
	server := startMetricsServer(cfg, log)

	rng := rand.New(rand.NewSource(cfg.Seed))
	generator, err := usecase.NewContextGenerator(facts, rng, usecase.GeneratorOptions{
		NumAirports: cfg.NumAirports,
		BookWindow:  cfg.BookWindow,
		NumRecords:  cfg.NumRecords,
		DisplayFreq: cfg.DisplayFreq,
	}, m, log)
	if err != nil {
		log.Fatal("Failed to create generator", "error", err)
	}

	var simulator *usecase.DialogueSimulator
	if withDialogue {
		simulator = usecase.NewDialogueSimulator(facts, rng, usecase.SimulatorOptions{
			SkipGreeting:         cfg.SkipGreeting,
			FixResponseCandidate: cfg.FixResponseCandidate,
			FirstAskProb:         cfg.FirstAskProb,
			RegretProb:           cfg.RegretProb,
			CancelRegretProb:     cfg.CancelRegretProb,
			RandomRespondError:   cfg.RandomRespondError,
			SecondaryError:       cfg.SecondaryError,
		}, log)
	}

	store, err := newCorpusStore(ctx, cfg, dataPath, kbPath, generator.RunID(), log)
	if err != nil {
		log.Fatal("Failed to open corpus store", "error", err)
	}

	log.Info("Generating corpus", "run", generator.RunID(), "samples", cfg.NumSamples,
		"seed", cfg.Seed, "streaming", cfg.Streaming)
	start := time.Now()
	statusCounts := map[entity.Status]int{}

	persist := func(s usecase.Sample) error {
		record := entity.DataRecord{
			Intent:         s.Intent,
			ExpectedAction: s.ExpectedAction,
		}
		if simulator != nil {
			dialogue, action, _ := simulator.GenerateDialogue(s.Intent, s.KB)
			record.Dialogue = dialogue
			record.Action = action
			correct := actionMatches(action, s.ExpectedAction)
			record.CorrectSample = &correct
			if !correct {
				m.SamplesIncorrect.Inc()
			}
			m.DialogueTurns.Observe(float64(len(dialogue)))
		} else {
			record.Action = generator.UserAction(s.ExpectedAction)
		}
		statusCounts[s.ExpectedAction.Status]++
		return store.Write(ctx, record, s.KB)
	}

	if cfg.Streaming {
		err = generator.Stream(ctx, cfg.NumSamples, func(_ int, s usecase.Sample) error {
			return persist(s)
		})
	} else {
		var samples []usecase.Sample
		samples, _, err = generator.GenerateBatch(ctx, cfg.NumSamples)
		for i := 0; err == nil && i < len(samples); i++ {
			err = persist(samples[i])
		}
	}
	if err != nil {
		log.Error("Generation stopped", "error", err)
	}
	if closeErr := store.Close(ctx); closeErr != nil {
		log.Error("Failed to close corpus store", "error", closeErr)
	}

	for status, n := range statusCounts {
		log.Info("Status proportion", "status", status,
			"fraction", float64(n)/float64(cfg.NumSamples))
	}
	log.Info("Generation finished", "elapsed", time.Since(start).String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	return err
}

// actionMatches reports whether a dialogue's final action agrees with the
// expected action: same canonical status, same name, and a committed flight
// inside the expected tied set.
func actionMatches(action, expected entity.Action) bool {
	if action.Status.Canonical() != expected.Status.Canonical() {
		return false
	}
	if action.Name != expected.Name {
		return false
	}
	if len(action.Flights) == 0 {
		return len(expected.Flights) == 0
	}
	for _, num := range expected.Flights {
		if num == action.Flights[0] {
			return true
		}
	}
	return false
}
