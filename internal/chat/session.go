package chat

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxExchanges is the default number of exchanges kept in context.
	MaxExchanges = 10

	// Ellipsis marks a truncated field in a summary.
	Ellipsis = "..."
)

// Exchange is one user input paired with one assistant reply.
type Exchange struct {
	UserText      string
	AssistantText string
	Timestamp     time.Time
}

// ChangeEvent describes a change in the number of recorded exchanges.
type ChangeEvent struct {
	OldCount int
	NewCount int
}

// ChangeHandler is called after the context changes.
type ChangeHandler func(ChangeEvent)

// Session is the bounded, ordered exchange log of one interactive session.
// It lives only in memory and is never persisted.
type Session struct {
	ID        string
	StartTime time.Time

	exchanges []Exchange
	capacity  int
	now       func() time.Time
	onChange  ChangeHandler
	mu        sync.RWMutex
}

// Option configures a Session.
type Option func(*Session)

// WithCapacity sets how many exchanges are kept. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the time source used for exchange timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		capacity:  MaxExchanges,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetChangeHandler sets the callback for context changes.
func (s *Session) SetChangeHandler(handler ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = handler
}

// Record appends an exchange stamped with the current time and evicts the
// oldest exchanges beyond capacity.
func (s *Session) Record(userText, assistantText string) {
	s.mu.Lock()

	oldCount := len(s.exchanges)
	s.exchanges = append(s.exchanges, Exchange{
		UserText:      userText,
		AssistantText: assistantText,
		Timestamp:     s.now(),
	})
	if over := len(s.exchanges) - s.capacity; over > 0 {
		// Copy so evicted exchanges are not pinned by the backing array
		kept := make([]Exchange, s.capacity)
		copy(kept, s.exchanges[over:])
		s.exchanges = kept
	}

	s.notifyChange(oldCount)
}

// Clear empties the session. Calling it on an empty session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	oldCount := len(s.exchanges)
	s.exchanges = nil
	s.notifyChange(oldCount)
}

// notifyChange releases the lock held by the caller, then runs the handler.
func (s *Session) notifyChange(oldCount int) {
	event := ChangeEvent{OldCount: oldCount, NewCount: len(s.exchanges)}
	handler := s.onChange
	s.mu.Unlock()

	if handler == nil || (event.OldCount == 0 && event.NewCount == 0) {
		return
	}
	handler(event)
}

// Len returns the number of recorded exchanges.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges)
}

// IsEmpty reports whether nothing has been recorded.
func (s *Session) IsEmpty() bool {
	return s.Len() == 0
}

// Capacity returns the maximum number of exchanges kept.
func (s *Session) Capacity() int {
	return s.capacity
}

// Exchanges returns a copy of the recorded exchanges, oldest first.
func (s *Session) Exchanges() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

// SummaryOptions bounds the text produced by Summarize.
type SummaryOptions struct {
	MaxExchanges int
	UserCap      int
	AssistantCap int
}

// DefaultSummaryOptions returns the limits used for follow-up prompts.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{MaxExchanges: 3, UserCap: 200, AssistantCap: 300}
}

// Summarize renders the most recent exchanges, oldest first, for use as
// follow-up context. Each field is cut to its cap in characters, not
// words, with Ellipsis appended when cut. An empty session yields "".
// Summarize does not modify the session.
func (s *Session) Summarize(opts SummaryOptions) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.exchanges) == 0 {
		return ""
	}

	window := s.exchanges
	if opts.MaxExchanges > 0 && len(window) > opts.MaxExchanges {
		window = window[len(window)-opts.MaxExchanges:]
	}

	parts := make([]string, 0, 1+3*len(window))
	parts = append(parts, "Previous conversation context:")
	for i, ex := range window {
		parts = append(parts,
			"\nExchange "+strconv.Itoa(i+1)+":",
			"User: "+truncate(ex.UserText, opts.UserCap),
			"Assistant: "+truncate(ex.AssistantText, opts.AssistantCap),
		)
	}

	return strings.Join(parts, "\n")
}

// truncate cuts s to limit runes and appends Ellipsis if anything was cut.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}
