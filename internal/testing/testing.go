// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"sync"
	"testing"
	"time"
)

// ErrUnavailable is returned by [FailingStorage] for every call.
var ErrUnavailable = errors.New("storage offline")

// ManualScheduler is a test double for player.Scheduler. Ticks fire only when the test calls [ManualScheduler.Tick].
type ManualScheduler struct {
	mu        sync.Mutex
	sequences []*manualSequence
}

type manualSequence struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

// Every registers fn and returns its cancel function.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := &manualSequence{interval: interval, fn: fn}
	s.sequences = append(s.sequences, seq)

	return func() {
		s.mu.Lock()
		seq.cancelled = true
		s.mu.Unlock()
	}
}

// Tick fires every live sequence once. Sequences cancelled during the tick do not fire again.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	live := make([]*manualSequence, 0, len(s.sequences))
	for _, seq := range s.sequences {
		if !seq.cancelled {
			live = append(live, seq)
		}
	}
	s.mu.Unlock()

	for _, seq := range live {
		s.mu.Lock()
		cancelled := seq.cancelled
		s.mu.Unlock()
		if !cancelled {
			seq.fn()
		}
	}
}

// TickN calls [ManualScheduler.Tick] n times.
func (s *ManualScheduler) TickN(n int) {
	for range n {
		s.Tick()
	}
}

// FireStale invokes the callback of the sequence at index i even if it was cancelled,
// simulating a tick that raced with cancellation.
func (s *ManualScheduler) FireStale(i int) {
	s.mu.Lock()
	seq := s.sequences[i]
	s.mu.Unlock()
	seq.fn()
}

// Live returns how many sequences are armed and not cancelled.
func (s *ManualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, seq := range s.sequences {
		if !seq.cancelled {
			n++
		}
	}
	return n
}

// Armed returns how many sequences were ever armed.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sequences)
}

// MemoryStorage is an in-memory test double for repositories.Storage that counts writes per key.
type MemoryStorage struct {
	mu       sync.Mutex
	records  map[string][]byte
	writes   map[string]int
	notFound error
}

// NewMemoryStorage creates a MemoryStorage returning notFound for absent keys.
func NewMemoryStorage(notFound error) *MemoryStorage {
	return &MemoryStorage{records: map[string][]byte{}, writes: map[string]int{}, notFound: notFound}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.records[key]
	if !ok {
		return nil, m.notFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = append([]byte(nil), value...)
	m.writes[key]++
	return nil
}

// Set stores a raw value without counting it as a write.
func (m *MemoryStorage) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
}

// Writes returns how many times key was written through Put.
func (m *MemoryStorage) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

// Records returns a copy of the stored values.
func (m *MemoryStorage) Records() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.records)
}

// FailingStorage is a repositories.Storage whose every call fails with [ErrUnavailable].
type FailingStorage struct{}

func (FailingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrUnavailable
}

func (FailingStorage) Put(ctx context.Context, key string, value []byte) error {
	return ErrUnavailable
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter forwards the first n writes to w and fails every write after that.
type LimitedWriter struct {
	n int
	w io.Writer
}

// NewLimitedWriter creates a LimitedWriter allowing n successful writes.
func NewLimitedWriter(n int, w io.Writer) *LimitedWriter {
	return &LimitedWriter{n: n, w: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, errors.New("write limit reached")
	}
	l.n--
	return l.w.Write(p)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
