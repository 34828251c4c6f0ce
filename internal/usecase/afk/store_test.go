package afk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplates() map[string]Templates {
	return map[string]Templates{
		"afk": {
			GoingAway:  "{username} is now afk",
			ComingBack: "{username} is no longer afk: {message} ({duration} ago)",
			Resuming:   "{username} is afk again",
		},
	}
}

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(testTemplates(), 10*time.Second)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestGoAfkAndComeBack(t *testing.T) {
	s, now := newTestStore(t)

	rec := s.GoAfk("1", "alice", "afk", "lunch")
	assert.True(t, rec.Afk)
	assert.Equal(t, *now, rec.Since)
	assert.True(t, s.IsAfk("1"))

	*now = now.Add(5 * time.Minute)
	prior := s.ComeBack("1")
	require.NotNil(t, prior)
	assert.True(t, prior.Afk)
	assert.Equal(t, "lunch", prior.Reason)
	assert.False(t, s.IsAfk("1"))

	assert.Equal(t, "alice is no longer afk: lunch (5min ago)", s.RenderComingBack(*prior))
}

func TestComeBackWhenNotAfkIsNoop(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Nil(t, s.ComeBack("missing"))

	s.GoAfk("1", "alice", "afk", "")
	require.NotNil(t, s.ComeBack("1"))
	// The flag is already cleared; a second return is a no-op.
	assert.Nil(t, s.ComeBack("1"))
}

func TestGoAfkRefreshesExistingRecord(t *testing.T) {
	s, now := newTestStore(t)

	s.GoAfk("1", "alice", "afk", "lunch")
	*now = now.Add(time.Minute)
	rec := s.GoAfk("1", "alice", "afk", "dinner")

	assert.Equal(t, "dinner", rec.Reason)
	assert.Equal(t, *now, rec.Since)
}

func TestRenderComingBackWithoutReasonHasNoDanglingPunctuation(t *testing.T) {
	s, now := newTestStore(t)

	s.GoAfk("1", "alice", "afk", "")
	*now = now.Add(90 * time.Second)
	prior := s.ComeBack("1")
	require.NotNil(t, prior)

	got := s.RenderComingBack(*prior)
	assert.Equal(t, "alice is no longer afk (1min, 30s ago)", got)
	assert.NotContains(t, got, ":")
	assert.NotContains(t, got, "  ")
}

func TestResume(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Resume("1")
	assert.ErrorIs(t, err, ErrNeverAfk)

	s.GoAfk("1", "alice", "afk", "lunch")
	require.NotNil(t, s.ComeBack("1"))

	rec, err := s.Resume("1")
	require.NoError(t, err)
	assert.True(t, rec.Afk)
	assert.Equal(t, "lunch", rec.Reason)
	assert.True(t, s.IsAfk("1"))
	assert.Equal(t, "alice is afk again", s.RenderResuming(*rec))
}

func TestCooldownSuppressesSecondNotification(t *testing.T) {
	s, now := newTestStore(t)

	assert.False(t, s.CooldownActive("1"))
	s.ArmCooldown("1")
	assert.True(t, s.CooldownActive("1"))

	// Arming again renews the entry instead of stacking a second one.
	*now = now.Add(8 * time.Second)
	s.ArmCooldown("1")
	*now = now.Add(8 * time.Second)
	assert.True(t, s.CooldownActive("1"))

	*now = now.Add(10 * time.Second)
	assert.False(t, s.CooldownActive("1"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "all components", d: 90061 * time.Second, want: "1d, 1h, 1min, 1s"},
		{name: "zero", d: 0, want: "<1s"},
		{name: "sub second", d: 400 * time.Millisecond, want: "<1s"},
		{name: "zero components omitted", d: 24*time.Hour + 30*time.Second, want: "1d, 30s"},
		{name: "minutes only", d: 3 * time.Minute, want: "3min"},
		{name: "negative clamped", d: -5 * time.Second, want: "<1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}
