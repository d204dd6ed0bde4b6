package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/domain/repository"
	"airtalk-service/pkg/logger"
)

// FileCorpusRepository persists a corpus as two line-aligned JSONL files,
// one for data records and one for knowledge bases.
type FileCorpusRepository struct {
	dataPath string
	kbPath   string
	log      logger.Logger

	dataFile *os.File
	kbFile   *os.File
	dataBuf  *bufio.Writer
	kbBuf    *bufio.Writer
}

// NewFileCorpusRepository creates a file-backed corpus repository. Files are
// opened lazily: writing truncates, reading expects both files to exist.
func NewFileCorpusRepository(dataPath, kbPath string, log logger.Logger) *FileCorpusRepository {
	return &FileCorpusRepository{dataPath: dataPath, kbPath: kbPath, log: log}
}

// Write appends one aligned record pair.
func (r *FileCorpusRepository) Write(ctx context.Context, data entity.DataRecord, kb entity.KnowledgeBase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.dataBuf == nil {
		if err := r.open(); err != nil {
			return err
		}
	}
	dataLine, err := json.Marshal(data)
	if err != nil {
		return err
	}
	kbLine, err := json.Marshal(kb)
	if err != nil {
		return err
	}
	if _, err := r.dataBuf.Write(append(dataLine, '\n')); err != nil {
		return err
	}
	_, err = r.kbBuf.Write(append(kbLine, '\n'))
	return err
}

func (r *FileCorpusRepository) open() error {
	dataFile, err := os.Create(r.dataPath)
	if err != nil {
		return err
	}
	kbFile, err := os.Create(r.kbPath)
	if err != nil {
		dataFile.Close()
		return err
	}
	r.dataFile, r.kbFile = dataFile, kbFile
	r.dataBuf = bufio.NewWriter(dataFile)
	r.kbBuf = bufio.NewWriter(kbFile)
	return nil
}

// Close flushes and closes both files.
func (r *FileCorpusRepository) Close(ctx context.Context) error {
	if r.dataBuf == nil {
		return nil
	}
	if err := r.dataBuf.Flush(); err != nil {
		return err
	}
	if err := r.kbBuf.Flush(); err != nil {
		return err
	}
	if err := r.dataFile.Close(); err != nil {
		return err
	}
	return r.kbFile.Close()
}

// Load buffers the whole corpus in memory.
func (r *FileCorpusRepository) Load(ctx context.Context, dropIncorrect bool) ([]entity.DataRecord, []entity.KnowledgeBase, repository.LoadStats, error) {
	var records []entity.DataRecord
	var kbs []entity.KnowledgeBase
	stats, err := r.Stream(ctx, dropIncorrect, func(data entity.DataRecord, kb entity.KnowledgeBase) error {
		records = append(records, data)
		kbs = append(kbs, kb)
		return nil
	})
	if err != nil {
		return nil, nil, stats, err
	}
	return records, kbs, stats, nil
}

// Stream reads aligned pairs one line at a time. Malformed or misaligned
// pairs are skipped and counted, never fatal.
func (r *FileCorpusRepository) Stream(ctx context.Context, dropIncorrect bool, fn func(entity.DataRecord, entity.KnowledgeBase) error) (repository.LoadStats, error) {
	var stats repository.LoadStats
	dataFile, err := os.Open(r.dataPath)
	if err != nil {
		return stats, err
	}
	defer dataFile.Close()
	kbFile, err := os.Open(r.kbPath)
	if err != nil {
		return stats, err
	}
	defer kbFile.Close()

	dataScan := bufio.NewScanner(dataFile)
	dataScan.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	kbScan := bufio.NewScanner(kbFile)
	kbScan.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	for dataScan.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !kbScan.Scan() {
			// Trailing data lines without a kb partner.
			stats.Total++
			continue
		}
		stats.Total++
		data, kb, err := parsePair(dataScan.Bytes(), kbScan.Bytes())
		if err != nil {
			r.log.Warn("Skipping malformed corpus pair", "line", stats.Total, "error", err)
			continue
		}
		if dropIncorrect && !data.IsCorrect() {
			continue
		}
		stats.Kept++
		if err := fn(data, kb); err != nil {
			return stats, err
		}
	}
	for kbScan.Scan() {
		stats.Total++
	}
	if err := dataScan.Err(); err != nil {
		return stats, err
	}
	if stats.Total > 0 {
		r.log.Info("Loaded corpus", "kept", stats.Kept, "total", stats.Total)
	}
	return stats, kbScan.Err()
}

func parsePair(dataLine, kbLine []byte) (entity.DataRecord, entity.KnowledgeBase, error) {
	var data entity.DataRecord
	var kb entity.KnowledgeBase
	if len(strings.TrimSpace(string(dataLine))) < 10 || len(strings.TrimSpace(string(kbLine))) < 10 {
		return data, kb, repository.ErrMalformedRecord
	}
	if err := json.Unmarshal(dataLine, &data); err != nil {
		return data, kb, repository.ErrMalformedRecord
	}
	if err := json.Unmarshal(kbLine, &kb); err != nil {
		return data, kb, repository.ErrMalformedRecord
	}
	return data, kb, nil
}
