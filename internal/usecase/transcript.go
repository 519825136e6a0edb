package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/observability"
)

// TranscriptLog owns the ordered conversation sequence. Items are append-only
// and insertion order is display order; a translation placeholder's text may
// be resolved exactly once.
type TranscriptLog struct {
	mu       sync.Mutex
	items    []domain.TranscriptItem
	index    map[string]int
	resolved map[string]bool
}

func NewTranscriptLog() *TranscriptLog {
	return &TranscriptLog{
		index:    make(map[string]int),
		resolved: make(map[string]bool),
	}
}

// AppendSource appends a finalized source-language item.
func (l *TranscriptLog) AppendSource(text string) domain.TranscriptItem {
	return l.append(domain.OriginSource, text, true)
}

// AppendPlaceholder appends an unresolved translation item. Every translation
// entry enters the log this way; none is ever created already resolved.
func (l *TranscriptLog) AppendPlaceholder() domain.TranscriptItem {
	return l.append(domain.OriginTranslation, "", false)
}

// AppendExchange appends a finalized source item and its unresolved
// translation placeholder in one critical section, so concurrent submissions
// cannot interleave another entry between a pair.
func (l *TranscriptLog) AppendExchange(text string) (domain.TranscriptItem, domain.TranscriptItem) {
	l.mu.Lock()
	source := l.appendLocked(domain.OriginSource, text, true)
	placeholder := l.appendLocked(domain.OriginTranslation, "", false)
	size := len(l.items)
	l.mu.Unlock()

	observability.SetTranscriptSize(size)
	return source, placeholder
}

func (l *TranscriptLog) append(origin domain.Origin, text string, final bool) domain.TranscriptItem {
	l.mu.Lock()
	item := l.appendLocked(origin, text, final)
	size := len(l.items)
	l.mu.Unlock()

	observability.SetTranscriptSize(size)
	return item
}

func (l *TranscriptLog) appendLocked(origin domain.Origin, text string, final bool) domain.TranscriptItem {
	item := domain.TranscriptItem{
		ID:        uuid.NewString(),
		Text:      text,
		Origin:    origin,
		CreatedAt: time.Now(),
	}
	l.index[item.ID] = len(l.items)
	l.items = append(l.items, item)
	l.resolved[item.ID] = final
	return item
}

// Resolve mutates a placeholder's text in place. It reports false when the id
// is unknown or the item was already resolved, so late or duplicate
// settlements cannot overwrite a final text.
func (l *TranscriptLog) Resolve(id string, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.index[id]
	if !ok || l.resolved[id] {
		return false
	}
	l.items[pos].Text = text
	l.resolved[id] = true
	return true
}

// Clear empties the log. Clearing an empty log reports false.
func (l *TranscriptLog) Clear() bool {
	l.mu.Lock()
	had := len(l.items) > 0
	l.items = nil
	l.index = make(map[string]int)
	l.resolved = make(map[string]bool)
	l.mu.Unlock()

	observability.SetTranscriptSize(0)
	return had
}

// Items returns a snapshot of the transcript in display order.
func (l *TranscriptLog) Items() []domain.TranscriptItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.TranscriptItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the current number of items.
func (l *TranscriptLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
