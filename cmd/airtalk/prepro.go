package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/infrastructure/config"
	"airtalk-service/internal/usecase"
	"airtalk-service/pkg/logger"
)

var (
	preproData    string
	preproKB      string
	preproPrefix  string
	preproKeepAll bool
)

// preproCmd tokenizes a corpus for model training
var preproCmd = &cobra.Command{
	Use:   "prepro",
	Short: "Tokenize a corpus into training files",
	Long: `Converts a generated corpus into the flat training format: one
pipe-delimited line per dialogue (intent|action|dialogue|boundaries),
one knowledge base tag line per sample, and a vocabulary file.

Samples marked incorrect are dropped unless --keep-all is set.`,
	RunE: runPrepro,
}

func init() {
	preproCmd.Flags().StringVar(&preproData, "data", "", "corpus data path or object key")
	preproCmd.Flags().StringVar(&preproKB, "kb", "", "corpus kb path or object key")
	preproCmd.Flags().StringVarP(&preproPrefix, "output", "o", "train", "output file prefix")
	preproCmd.Flags().BoolVar(&preproKeepAll, "keep-all", false, "keep samples marked incorrect")
}

func runPrepro(cmd *cobra.Command, args []string) error {
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
	if preproData != "" {
		dataPath = preproData
	}
	if preproKB != "" {
		kbPath = preproKB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newCorpusStore(ctx, cfg, dataPath, kbPath, "", log)
	if err != nil {
		log.Fatal("Failed to open corpus store", "error", err)
	}

	dataOut, err := os.Create(preproPrefix + ".data")
	if err != nil {
		return err
	}
	defer dataOut.Close()
	kbOut, err := os.Create(preproPrefix + ".kb")
	if err != nil {
		return err
	}
	defer kbOut.Close()

	dataBuf := bufio.NewWriter(dataOut)
	kbBuf := bufio.NewWriter(kbOut)
	acc := usecase.NewVocabAccumulator()
	tok := usecase.SimpleTokenizer{}

	stats, err := store.Stream(ctx, !preproKeepAll, func(data entity.DataRecord, kb entity.KnowledgeBase) error {
		intentToks := acc.TokenizeIntent(data.Intent)
		actionToks := acc.TokenizeAction(data.Action)
		dialogueToks := usecase.ProcessDialogue(data.Dialogue, tok, acc)
		boundaries := usecase.DialogueBoundaries(usecase.TokenAgent, dialogueToks)
		line := usecase.FormatPipeLine(intentToks, actionToks, dialogueToks, boundaries)
		if _, err := dataBuf.WriteString(line + "\n"); err != nil {
			return err
		}
		kbLine := strings.Join(acc.TokenizeKB(kb), " ")
		_, err := kbBuf.WriteString(kbLine + "\n")
		return err
	})
	if err != nil {
		return err
	}
	if err := dataBuf.Flush(); err != nil {
		return err
	}
	if err := kbBuf.Flush(); err != nil {
		return err
	}

	vocab := acc.Vocabulary(cfg.VocabCutoff, false)
	vocabOut, err := os.Create(preproPrefix + ".vocab")
	if err != nil {
		return err
	}
	defer vocabOut.Close()
	vocabBuf := bufio.NewWriter(vocabOut)
	for _, token := range vocab {
		if _, err := vocabBuf.WriteString(token + "\n"); err != nil {
			return err
		}
	}
	if err := vocabBuf.Flush(); err != nil {
		return err
	}

	log.Info("Preprocessing finished",
		"kept", stats.Kept, "total", stats.Total, "vocab", len(vocab), "prefix", preproPrefix)
	return nil
}
