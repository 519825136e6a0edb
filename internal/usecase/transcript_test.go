package usecase

import (
	"sync"
	"testing"

	"github.com/raihanetx/banglatoenglish/internal/domain"
)

func TestTranscriptAppendKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()
	first := log.AppendSource("আমি ভাত খাই")
	second := log.AppendPlaceholder()
	third := log.AppendSource("ধন্যবাদ")

	items := log.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID || items[2].ID != third.ID {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].Origin != domain.OriginSource || items[1].Origin != domain.OriginTranslation {
		t.Fatalf("unexpected origins: %+v", items)
	}
	if items[1].Text != "" {
		t.Fatalf("placeholder should start empty, got %q", items[1].Text)
	}
}

func TestAppendExchangeKeepsPairsAdjacentUnderConcurrency(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			source, placeholder := log.AppendExchange("hello")
			if source.Origin != domain.OriginSource || placeholder.Origin != domain.OriginTranslation {
				t.Errorf("unexpected pair origins: %s, %s", source.Origin, placeholder.Origin)
			}
		}()
	}
	wg.Wait()

	items := log.Items()
	if len(items) != 16 {
		t.Fatalf("expected 16 items, got %d", len(items))
	}
	for i := 0; i < len(items); i += 2 {
		if items[i].Origin != domain.OriginSource || items[i+1].Origin != domain.OriginTranslation {
			t.Fatalf("pair at %d interleaved: %s then %s", i, items[i].Origin, items[i+1].Origin)
		}
	}
}

func TestTranscriptResolveMutatesExactlyOnce(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()
	placeholder := log.AppendPlaceholder()

	if !log.Resolve(placeholder.ID, "I eat rice") {
		t.Fatalf("first resolve should succeed")
	}
	if log.Resolve(placeholder.ID, "overwritten") {
		t.Fatalf("second resolve should be rejected")
	}
	if got := log.Items()[0].Text; got != "I eat rice" {
		t.Fatalf("unexpected final text: %q", got)
	}
}

func TestTranscriptResolveRejectsSourceAndUnknown(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()
	source := log.AppendSource("hello")

	if log.Resolve(source.ID, "changed") {
		t.Fatalf("source items are final on creation")
	}
	if log.Resolve("no-such-id", "changed") {
		t.Fatalf("unknown id should be rejected")
	}
}

func TestTranscriptClear(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()
	if log.Clear() {
		t.Fatalf("clearing an empty log should be a no-op")
	}

	log.AppendSource("a")
	log.AppendPlaceholder()
	if !log.Clear() {
		t.Fatalf("expected clear to report items removed")
	}
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d items", log.Len())
	}
	if log.Clear() {
		t.Fatalf("second clear should be a no-op")
	}
}

func TestTranscriptItemsReturnsSnapshot(t *testing.T) {
	t.Parallel()

	log := NewTranscriptLog()
	log.AppendSource("a")

	items := log.Items()
	items[0].Text = "mutated"

	if got := log.Items()[0].Text; got != "a" {
		t.Fatalf("snapshot mutation leaked into log: %q", got)
	}
}
