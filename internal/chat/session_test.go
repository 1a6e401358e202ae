package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	s := NewSession()
	assert.Equal(t, "", s.Summarize(DefaultSummaryOptions()))
	assert.True(t, s.IsEmpty())
}

func TestRecordEvictsOldest(t *testing.T) {
	s := NewSession()
	for i := 1; i <= 11; i++ {
		s.Record(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}

	got := s.Exchanges()
	require.Len(t, got, 10)
	for i, ex := range got {
		assert.Equal(t, fmt.Sprintf("u%d", i+2), ex.UserText)
		assert.Equal(t, fmt.Sprintf("a%d", i+2), ex.AssistantText)
	}

	s.Record("u12", "a12")
	got = s.Exchanges()
	require.Len(t, got, 10)
	assert.Equal(t, "u3", got[0].UserText)
	assert.Equal(t, "u12", got[9].UserText)
}

func TestWithCapacity(t *testing.T) {
	s := NewSession(WithCapacity(2))
	s.Record("a", "1")
	s.Record("b", "2")
	s.Record("c", "3")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.Exchanges()[0].UserText)

	assert.Equal(t, MaxExchanges, NewSession(WithCapacity(0)).Capacity())
}

func TestRecordTimestamps(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSession(WithClock(func() time.Time { return fixed }))
	s.Record("q", "a")
	assert.Equal(t, fixed, s.Exchanges()[0].Timestamp)
}

func TestSummarizeFormat(t *testing.T) {
	s := NewSession()
	s.Record("first question", "first answer")
	s.Record("second question", "second answer")

	want := "Previous conversation context:\n" +
		"\nExchange 1:\n" +
		"User: first question\n" +
		"Assistant: first answer\n" +
		"\nExchange 2:\n" +
		"User: second question\n" +
		"Assistant: second answer"
	assert.Equal(t, want, s.Summarize(DefaultSummaryOptions()))
}

func TestSummarizeTakesMostRecentWindow(t *testing.T) {
	s := NewSession()
	for i := 1; i <= 5; i++ {
		s.Record(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	out := s.Summarize(DefaultSummaryOptions())
	assert.NotContains(t, out, "q2")
	assert.Contains(t, out, "Exchange 1:\nUser: q3")
	assert.Contains(t, out, "Exchange 3:\nUser: q5")
	assert.Equal(t, 3, strings.Count(out, "Exchange "))
}

func TestSummarizeTruncatesExactly(t *testing.T) {
	s := NewSession()
	user := strings.Repeat("u", 250)
	assistant := strings.Repeat("a", 300)
	s.Record(user, assistant)

	out := s.Summarize(DefaultSummaryOptions())
	assert.Contains(t, out, "User: "+strings.Repeat("u", 200)+"...\n")
	assert.NotContains(t, out, strings.Repeat("u", 201))
	// exactly at the cap: no marker
	assert.True(t, strings.HasSuffix(out, "Assistant: "+assistant))
}

func TestSummarizeCountsCharactersNotBytes(t *testing.T) {
	s := NewSession()
	s.Record(strings.Repeat("é", 5), "ok")

	out := s.Summarize(SummaryOptions{MaxExchanges: 3, UserCap: 3, AssistantCap: 300})
	assert.Contains(t, out, "User: ééé...\n")
}

func TestSummarizeIsPure(t *testing.T) {
	s := NewSession()
	s.Record("q", "a")
	first := s.Summarize(DefaultSummaryOptions())
	second := s.Summarize(DefaultSummaryOptions())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.Len())
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewSession()
	s.Record("q", "a")
	s.Clear()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Summarize(DefaultSummaryOptions()))
}

func TestChangeHandler(t *testing.T) {
	s := NewSession(WithCapacity(1))
	var events []ChangeEvent
	s.SetChangeHandler(func(e ChangeEvent) {
		// handler may read the session without deadlocking
		_ = s.Len()
		events = append(events, e)
	})

	s.Record("a", "1")
	s.Record("b", "2")
	s.Clear()
	s.Clear()

	assert.Equal(t, []ChangeEvent{
		{OldCount: 0, NewCount: 1},
		{OldCount: 1, NewCount: 1},
		{OldCount: 1, NewCount: 0},
	}, events)
}

func TestExchangesReturnsCopy(t *testing.T) {
	s := NewSession()
	s.Record("q", "a")
	got := s.Exchanges()
	got[0].UserText = "changed"
	assert.Equal(t, "q", s.Exchanges()[0].UserText)
}
