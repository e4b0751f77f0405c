package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simdiag/internal/domain"
)

func TestMemoryHistoryOrdering(t *testing.T) {
	h := NewMemoryHistory()
	assert.Empty(t, h.Recent())
	assert.Equal(t, 0, h.Len())

	for _, name := range []string{"a.png", "b.png", "a.png"} {
		h.Append(domain.UploadRecord{Filename: name})
	}

	require.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"a.png", "b.png", "a.png"}, filenames(h.List()))
	assert.Equal(t, []string{"a.png", "b.png", "a.png"}, filenames(h.Recent()))

	h.Append(domain.UploadRecord{Filename: "c.png"})
	assert.Equal(t, []string{"c.png", "a.png", "b.png", "a.png"}, filenames(h.Recent()))
	assert.Equal(t, "a.png", h.List()[0].Filename)
}

func TestMemoryHistoryReturnsCopies(t *testing.T) {
	h := NewMemoryHistory()
	h.Append(domain.UploadRecord{Filename: "x.png"})

	recent := h.Recent()
	recent[0].Filename = "mutated"
	list := h.List()
	list[0].Filename = "mutated"

	assert.Equal(t, "x.png", h.List()[0].Filename)
}

func TestMemoryHistoryConcurrentAppend(t *testing.T) {
	h := NewMemoryHistory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Append(domain.UploadRecord{Filename: fmt.Sprintf("%d.png", i)})
			_ = h.Recent()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, h.Len())
}

func filenames(records []domain.UploadRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Filename)
	}
	return out
}
