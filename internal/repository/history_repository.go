package repository

import (
	"sync"

	"simdiag/internal/domain"
)

// HistoryRepository keeps upload records for the lifetime of the process.
type HistoryRepository interface {
	Append(record domain.UploadRecord)
	List() []domain.UploadRecord
	Recent() []domain.UploadRecord
	Len() int
}

type memoryHistory struct {
	mu      sync.RWMutex
	records []domain.UploadRecord
}

func NewMemoryHistory() HistoryRepository {
	return &memoryHistory{}
}

func (h *memoryHistory) Append(record domain.UploadRecord) {
	h.mu.Lock()
	h.records = append(h.records, record)
	h.mu.Unlock()
}

// List returns the records in insertion order.
func (h *memoryHistory) List() []domain.UploadRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.UploadRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Recent returns the records newest first.
func (h *memoryHistory) Recent() []domain.UploadRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.UploadRecord, len(h.records))
	for i, rec := range h.records {
		out[len(h.records)-1-i] = rec
	}
	return out
}

func (h *memoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
