package repository

import (
	"context"
	"errors"

	"airtalk-service/internal/domain/entity"
)

// ErrMalformedRecord marks a persisted line that cannot be parsed or a
// data/kb pair that has gone out of alignment. Loaders skip such pairs and
// count them rather than failing the batch.
var ErrMalformedRecord = errors.New("malformed corpus record")

// LoadStats reports the drop rate of a batch load.
type LoadStats struct {
	Kept  int
	Total int
}

// CorpusWriter persists line-aligned data and knowledge-base record pairs.
// One Write per sample keeps the streaming mode constant-memory.
type CorpusWriter interface {
	Write(ctx context.Context, data entity.DataRecord, kb entity.KnowledgeBase) error
	Close(ctx context.Context) error
}

// CorpusReader loads a corpus back. Stream yields one aligned pair at a time;
// Load buffers the whole corpus. Both skip malformed pairs non-fatally and
// report kept/total.
type CorpusReader interface {
	Load(ctx context.Context, dropIncorrect bool) ([]entity.DataRecord, []entity.KnowledgeBase, LoadStats, error)
	Stream(ctx context.Context, dropIncorrect bool, fn func(entity.DataRecord, entity.KnowledgeBase) error) (LoadStats, error)
}
