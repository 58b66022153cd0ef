package stats

import (
	"context"
	"sort"
	"sync"

	"netbots/internal/model"
)

// RunRecord is everything a consumer needs to capture from a finished
// training run before the process ends: the statistics trace and the
// elite's genome and score. Nothing here is ever written to disk;
// training results are in-memory and ephemeral.
type RunRecord struct {
	RunID       string                   `json:"run_id"`
	Trace       []model.GenerationRecord `json:"trace"`
	EliteScore  int                      `json:"elite_score"`
	EliteGenome model.Genome             `json:"elite_genome"`
}

// Archive collects run records for reporting collaborators.
type Archive interface {
	SaveRun(ctx context.Context, record RunRecord) error
	GetRun(ctx context.Context, runID string) (RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
}

// MemoryArchive is the only Archive implementation: a process-local
// map guarded by a mutex. Records are deep-copied on the way in and
// out so callers can never alias archived state.
type MemoryArchive struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{runs: make(map[string]RunRecord)}
}

func (a *MemoryArchive) SaveRun(_ context.Context, record RunRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.runs[record.RunID] = copyRunRecord(record)
	return nil
}

func (a *MemoryArchive) GetRun(_ context.Context, runID string) (RunRecord, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	record, ok := a.runs[runID]
	if !ok {
		return RunRecord{}, false, nil
	}
	return copyRunRecord(record), true, nil
}

func (a *MemoryArchive) ListRuns(_ context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, 0, len(a.runs))
	for id := range a.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copyRunRecord(record RunRecord) RunRecord {
	return RunRecord{
		RunID:       record.RunID,
		Trace:       append([]model.GenerationRecord(nil), record.Trace...),
		EliteScore:  record.EliteScore,
		EliteGenome: record.EliteGenome.Clone(),
	}
}
