package store

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"pdfcon/types"
)

// Memory keeps everything in mutexed maps. It is the default backend when
// no SQLITE_PATH is configured and is also what the pipeline tests use.
type Memory struct {
	mu          sync.RWMutex
	conversions map[string]types.Conversion
	documents   map[string]types.DocumentRecord

	// now is swappable in tests.
	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	log.Printf("[Store] using in-memory store")
	return &Memory{
		conversions: make(map[string]types.Conversion),
		documents:   make(map[string]types.DocumentRecord),
		now:         time.Now,
	}
}

func (m *Memory) Create(ctx context.Context, conv *types.Conversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *conv
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	m.conversions[stored.ID] = stored
	*conv = stored
	return nil
}

func (m *Memory) MarkProcessing(ctx context.Context, id, inputURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversions[id]
	if !ok {
		return ErrNotFound
	}
	if conv.Status.Terminal() {
		return ErrTerminal
	}

	conv.Status = types.StatusProcessing
	conv.InputURL = inputURL
	m.conversions[id] = conv
	return nil
}

func (m *Memory) Complete(ctx context.Context, id, outputURL, method string, tokens int, hasStructuredData bool) (*types.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if conv.Status.Terminal() {
		return nil, ErrTerminal
	}

	completedAt := m.now()
	conv.Status = types.StatusCompleted
	conv.OutputURL = outputURL
	conv.Method = method
	conv.Tokens = tokens
	conv.HasStructuredData = hasStructuredData
	conv.CompletedAt = &completedAt
	m.conversions[id] = conv

	copied := conv
	return &copied, nil
}

func (m *Memory) Fail(ctx context.Context, id string) (*types.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if conv.Status.Terminal() {
		return nil, ErrTerminal
	}

	completedAt := m.now()
	conv.Status = types.StatusFailed
	conv.CompletedAt = &completedAt
	m.conversions[id] = conv

	copied := conv
	return &copied, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*types.Conversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.conversions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := conv
	return &copied, nil
}

func (m *Memory) Recent(ctx context.Context, limit int) ([]types.Conversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Conversion, 0, len(m.conversions))
	for _, conv := range m.conversions {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Stats(ctx context.Context) (*types.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conversions := make([]types.Conversion, 0, len(m.conversions))
	for _, conv := range m.conversions {
		conversions = append(conversions, conv)
	}
	return computeStats(conversions, m.now()), nil
}

func (m *Memory) Save(ctx context.Context, rec *types.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *rec
	now := m.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.documents[stored.ID] = stored
	*rec = stored
	return nil
}

func (m *Memory) GetByConversionID(ctx context.Context, conversionID string) (*types.DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.documents {
		if rec.ConversionID == conversionID {
			copied := rec
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}
