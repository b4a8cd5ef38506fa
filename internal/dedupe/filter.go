// ABOUTME: Duplicate suppression over a bounded window of recent post texts.
// ABOUTME: Compares Jaccard similarity of normalized token sets against a threshold.
package dedupe

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hoshiko-bot/hoshiko/internal/models"
)

// DefaultThreshold is the similarity at or above which a candidate is
// rejected as a duplicate.
const DefaultThreshold = 0.6

// DefaultWindowSize bounds how many past posts the filter remembers.
const DefaultWindowSize = 200

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`[@#][\p{L}\p{N}_]+`)
	punctPattern   = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Match describes the remembered post a candidate collided with.
type Match struct {
	Text       string
	Similarity float64
}

// Filter rejects candidates too similar to recently published posts. It owns
// the in-memory view of the post history; the caller persists snapshots from
// Records after each mutation.
type Filter struct {
	threshold float64
	window    int
	records   []models.PostRecord
}

// NewFilter creates a filter seeded with previously persisted history. The
// history is truncated to the window bound, keeping the newest records.
func NewFilter(threshold float64, window int, history []models.PostRecord) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindowSize
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	records := make([]models.PostRecord, len(history))
	copy(records, history)
	return &Filter{threshold: threshold, window: window, records: records}
}

// Check compares the candidate against every remembered post and returns the
// first match at or above the threshold, or nil if the candidate is accepted.
// It only computes similarity; it never validates non-emptiness.
func (f *Filter) Check(candidate string) *Match {
	candidateSet := Tokenize(candidate)
	for _, rec := range f.records {
		sim := Jaccard(candidateSet, Tokenize(rec.Text))
		if sim >= f.threshold {
			return &Match{Text: rec.Text, Similarity: sim}
		}
	}
	return nil
}

// Remember appends a published post to the window, evicting the oldest
// record when the bound is exceeded.
func (f *Filter) Remember(rec models.PostRecord) {
	f.records = append(f.records, rec)
	if len(f.records) > f.window {
		f.records = f.records[len(f.records)-f.window:]
	}
}

// PruneOlderThan drops records with timestamps before the cutoff, preserving
// order. Used at startup to expire stale history.
func (f *Filter) PruneOlderThan(cutoff time.Time) {
	kept := f.records[:0]
	for _, rec := range f.records {
		if !rec.Timestamp.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	f.records = kept
}

// Records returns a copy of the current window for persistence.
func (f *Filter) Records() []models.PostRecord {
	out := make([]models.PostRecord, len(f.records))
	copy(out, f.records)
	return out
}

// Len reports how many posts the filter currently remembers.
func (f *Filter) Len() int {
	return len(f.records)
}

// Tokenize normalizes text into a set of comparison tokens: URLs, mentions,
// hashtags, and punctuation are stripped, everything is lowercased, and
// single-character words are dropped. Letters and digits in any script are
// kept; only actual punctuation and symbols are removed.
func Tokenize(text string) map[string]struct{} {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = punctPattern.ReplaceAllString(text, "")

	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(word) > 1 {
			set[word] = struct{}{}
		}
	}
	return set
}

// Jaccard computes |intersection| / |union| of two token sets. Two empty
// sets are defined as identical (1); one empty set makes the pair fully
// dissimilar (0).
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
