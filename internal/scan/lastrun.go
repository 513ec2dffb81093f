package scan

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wonny/exdiv/internal/contracts"
)

// LastRun captures the outcome of the most recent scan
type LastRun struct {
	Result      contracts.DividendScanResult `json:"result"`
	CompletedAt time.Time                    `json:"completed_at"`
	Duration    time.Duration                `json:"-"`
	Trigger     string                       `json:"trigger"` // "api", "slash", "schedule", "cli"
}

// MarshalJSON serializes Duration as whole milliseconds
// (time.Duration의 기본 직렬화는 나노초 정수)
func (r LastRun) MarshalJSON() ([]byte, error) {
	type alias LastRun
	return json.Marshal(struct {
		alias
		DurationMS int64 `json:"duration_ms"`
	}{alias(r), r.Duration.Milliseconds()})
}

// LastRunStore holds the most recent scan result in memory.
// 영속화하지 않는다: 프로세스 재시작 시 비어 있는 상태로 시작.
type LastRunStore struct {
	mu   sync.RWMutex
	last *LastRun
}

// NewLastRunStore creates an empty store
func NewLastRunStore() *LastRunStore {
	return &LastRunStore{}
}

// Set records a completed scan
func (s *LastRunStore) Set(run LastRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &run
}

// Get returns the most recent run, or false if none yet
func (s *LastRunStore) Get() (LastRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return LastRun{}, false
	}
	return *s.last, true
}
