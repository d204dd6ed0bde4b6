package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/domain/repository"
	"airtalk-service/pkg/logger"
)

// S3API is the subset of the S3 client used by the corpus repository.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3CorpusRepository persists a corpus as two line-aligned JSONL objects in a
// bucket. Lines are buffered in memory and uploaded on Close, since objects
// cannot be appended to.
type S3CorpusRepository struct {
	client  S3API
	bucket  string
	dataKey string
	kbKey   string
	log     logger.Logger

	dataBuf bytes.Buffer
	kbBuf   bytes.Buffer
	pending bool
}

// NewS3CorpusRepository creates an object-storage corpus repository.
func NewS3CorpusRepository(client S3API, bucket, dataKey, kbKey string, log logger.Logger) *S3CorpusRepository {
	return &S3CorpusRepository{client: client, bucket: bucket, dataKey: dataKey, kbKey: kbKey, log: log}
}

// Write appends one aligned record pair to the upload buffers.
func (r *S3CorpusRepository) Write(ctx context.Context, data entity.DataRecord, kb entity.KnowledgeBase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dataLine, err := json.Marshal(data)
	if err != nil {
		return err
	}
	kbLine, err := json.Marshal(kb)
	if err != nil {
		return err
	}
	r.dataBuf.Write(append(dataLine, '\n'))
	r.kbBuf.Write(append(kbLine, '\n'))
	r.pending = true
	return nil
}

// Close uploads both buffered objects.
func (r *S3CorpusRepository) Close(ctx context.Context) error {
	if !r.pending {
		return nil
	}
	if err := r.put(ctx, r.dataKey, r.dataBuf.Bytes()); err != nil {
		return err
	}
	if err := r.put(ctx, r.kbKey, r.kbBuf.Bytes()); err != nil {
		return err
	}
	r.log.Info("Uploaded corpus", "bucket", r.bucket, "dataKey", r.dataKey, "kbKey", r.kbKey)
	r.pending = false
	return nil
}

func (r *S3CorpusRepository) put(ctx context.Context, key string, body []byte) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", r.bucket, key, err)
	}
	return nil
}

// Load buffers the whole corpus in memory.
func (r *S3CorpusRepository) Load(ctx context.Context, dropIncorrect bool) ([]entity.DataRecord, []entity.KnowledgeBase, repository.LoadStats, error) {
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

// Stream downloads both objects and walks the aligned lines. Malformed pairs
// are skipped and counted.
func (r *S3CorpusRepository) Stream(ctx context.Context, dropIncorrect bool, fn func(entity.DataRecord, entity.KnowledgeBase) error) (repository.LoadStats, error) {
	var stats repository.LoadStats
	dataScan, closeData, err := r.get(ctx, r.dataKey)
	if err != nil {
		return stats, err
	}
	defer closeData()
	kbScan, closeKB, err := r.get(ctx, r.kbKey)
	if err != nil {
		return stats, err
	}
	defer closeKB()

	for dataScan.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !kbScan.Scan() {
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

func (r *S3CorpusRepository) get(ctx context.Context, key string) (*bufio.Scanner, func(), error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("download s3://%s/%s: %w", r.bucket, key, err)
	}
	scan := bufio.NewScanner(out.Body)
	scan.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	return scan, func() { out.Body.Close() }, nil
}
