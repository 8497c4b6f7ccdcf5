package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Vocabulary caches the distinct region names and category values of the
// view for entity extraction. It is refreshed from change events, so the
// matcher keeps up with new regions without a restart.
type Vocabulary struct {
	store *Store

	mu         sync.RWMutex
	regions    []string
	categories []string
	loadedAt   time.Time
}

func NewVocabulary(store *Store) *Vocabulary {
	return &Vocabulary{store: store}
}

// NewStaticVocabulary builds a vocabulary from fixed values, with no backing
// store. Tests and fakes use it.
func NewStaticVocabulary(regions, categories []string) *Vocabulary {
	v := &Vocabulary{}
	v.set(regions, categories)
	return v
}

func (v *Vocabulary) Refresh(ctx context.Context) error {
	regions, err := v.store.RegionNames(ctx)
	if err != nil {
		return err
	}
	categories, err := v.store.Categories(ctx)
	if err != nil {
		return err
	}

	v.set(regions, categories)
	return nil
}

func (v *Vocabulary) set(regions, categories []string) {
	// Longest first, so "Balikpapan Timur" wins over "Balikpapan".
	sortByLength(regions)
	sortByLength(categories)

	v.mu.Lock()
	v.regions = regions
	v.categories = categories
	v.loadedAt = time.Now()
	v.mu.Unlock()
}

func (v *Vocabulary) LoadedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loadedAt
}

// MatchRegion returns the longest known region name contained in text, or ""
// when none matches. Matching is case-insensitive.
func (v *Vocabulary) MatchRegion(text string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return matchLongest(text, v.regions)
}

// MatchCategory returns the longest known category value contained in text.
func (v *Vocabulary) MatchCategory(text string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return matchLongest(text, v.categories)
}

func matchLongest(text string, candidates []string) string {
	lowered := strings.ToLower(text)
	for _, candidate := range candidates {
		if strings.Contains(lowered, strings.ToLower(candidate)) {
			return candidate
		}
	}
	return ""
}

func sortByLength(values []string) {
	sort.Slice(values, func(i, j int) bool {
		if len(values[i]) != len(values[j]) {
			return len(values[i]) > len(values[j])
		}
		return values[i] < values[j]
	})
}
