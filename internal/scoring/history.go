package scoring

import "sort"

// RunEntry is one finished run.
type RunEntry struct {
	Deck      string `json:"deck"`
	Victory   bool   `json:"victory"`
	Credits   int    `json:"credits"`
	Turn      int    `json:"turn"`
	Seed      int64  `json:"seed"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"`
}

// History is the record of runs played with one deck.
type History struct {
	Entries  []RunEntry // best first
	Best     *RunEntry
	Attempts int
}

func newHistory(deck string, all []RunEntry) History {
	var h History
	for _, e := range all {
		if e.Deck == deck {
			h.Entries = append(h.Entries, e)
		}
	}
	sortRuns(h.Entries)
	h.Attempts = len(h.Entries)
	if len(h.Entries) > 0 {
		h.Best = &h.Entries[0]
	}
	return h
}

// Top returns up to n runs, best first.
func (h History) Top(n int) []RunEntry {
	if len(h.Entries) < n {
		n = len(h.Entries)
	}
	return append([]RunEntry(nil), h.Entries[:n]...)
}

// Wins counts the victorious runs.
func (h History) Wins() int {
	n := 0
	for _, e := range h.Entries {
		if e.Victory {
			n++
		}
	}
	return n
}

// sortRuns orders by score, then fewer turns, then earlier.
func sortRuns(entries []RunEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Turn != b.Turn {
			return a.Turn < b.Turn
		}
		return a.Timestamp < b.Timestamp
	})
}
