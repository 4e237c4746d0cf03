package score

import "sync"

// HighScoreKey is the store key of the all-time best score.
const HighScoreKey = "voidBlocksHighScore"

// HighScores tracks the best score in a Store. Concurrent sessions sharing
// one HighScores never lose a higher score to a lower one.
type HighScores struct {
	mu    sync.Mutex
	store Store
}

// NewHighScores wraps store. A nil store falls back to memory.
func NewHighScores(store Store) *HighScores {
	if store == nil {
		store = NewMemoryStore()
	}
	return &HighScores{store: store}
}

// Get returns the stored high score, or 0 when none was recorded.
func (h *HighScores) Get() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Get(HighScoreKey)
}

// RecordIfHigh stores score when it beats the current high score and reports
// whether it did.
func (h *HighScores) RecordIfHigh(score int) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	best, err := h.store.Get(HighScoreKey)
	if err != nil {
		return false, err
	}
	if score <= best {
		return false, nil
	}
	if err := h.store.Set(HighScoreKey, score); err != nil {
		return false, err
	}
	return true, nil
}
