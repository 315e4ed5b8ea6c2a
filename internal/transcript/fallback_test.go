package transcript

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
	text string
	err  error

	mu    sync.Mutex
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, videoID string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.text, s.err
}

func (s *stubProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingProvider appends its name to a shared log on every call.
type recordingProvider struct {
	name string
	text string
	log  *[]string
}

func (r *recordingProvider) Name() string { return r.name }

func (r *recordingProvider) Fetch(ctx context.Context, videoID string) (string, error) {
	*r.log = append(*r.log, r.name)
	if r.text == "" {
		return "", errors.New("unavailable")
	}
	return r.text, nil
}

func TestFallback_FirstSuccessWins(t *testing.T) {
	a := &stubProvider{name: "a", text: "  hello world  "}
	b := &stubProvider{name: "b", text: "other"}

	f := NewFallback(a, b)
	text, err := f.Fetch(context.Background(), "abcdefghijk")

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 0, b.Calls())
}

func TestFallback_SkipsFailuresAndEmpty(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("boom")}
	b := &stubProvider{name: "b", text: "   "}
	c := &stubProvider{name: "c", text: "transcript"}

	f := NewFallback(a, b, c)
	text, err := f.Fetch(context.Background(), "abcdefghijk")

	require.NoError(t, err)
	assert.Equal(t, "transcript", text)
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 1, b.Calls())
	assert.Equal(t, 1, c.Calls())
}

func TestFallback_AllFail(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("blocked")}
	b := &stubProvider{name: "b", text: ""}
	c := &stubProvider{name: "c", err: errors.New("quota")}

	f := NewFallback(a, b, c)
	_, err := f.Fetch(context.Background(), "abcdefghijk")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTranscript)
	assert.Contains(t, err.Error(), "a: blocked")
	assert.Contains(t, err.Error(), "c: quota")

	// each provider tried exactly once
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 1, b.Calls())
	assert.Equal(t, 1, c.Calls())
}

func TestFallback_NoProviders(t *testing.T) {
	_, err := NewFallback().Fetch(context.Background(), "abcdefghijk")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestFallback_RotatesStartingProvider(t *testing.T) {
	var calls []string
	a := &recordingProvider{name: "a", text: "A", log: &calls}
	b := &recordingProvider{name: "b", text: "B", log: &calls}
	c := &recordingProvider{name: "c", text: "C", log: &calls}

	f := NewFallback(a, b, c)
	var got []string
	for i := 0; i < 4; i++ {
		text, err := f.Fetch(context.Background(), "abcdefghijk")
		require.NoError(t, err)
		got = append(got, text)
	}

	assert.Equal(t, []string{"A", "B", "C", "A"}, got)
	assert.Equal(t, []string{"a", "b", "c", "a"}, calls)
}

func TestFallback_PointerAdvancesPastFailures(t *testing.T) {
	var calls []string
	a := &recordingProvider{name: "a", log: &calls}
	b := &recordingProvider{name: "b", text: "B", log: &calls}
	c := &recordingProvider{name: "c", text: "C", log: &calls}

	f := NewFallback(a, b, c)

	text, err := f.Fetch(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "B", text)

	// a and b were both attempted, so the next call starts at c.
	text, err = f.Fetch(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "C", text)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestFallback_EachProviderAtMostOncePerCall(t *testing.T) {
	var calls []string
	providers := []Provider{
		&recordingProvider{name: "a", log: &calls},
		&recordingProvider{name: "b", log: &calls},
		&recordingProvider{name: "c", log: &calls},
	}

	f := NewFallback(providers...)
	for round := 0; round < 3; round++ {
		calls = calls[:0]
		_, err := f.Fetch(context.Background(), "abcdefghijk")
		require.ErrorIs(t, err, ErrNoTranscript)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, calls)
	}
}

func TestFallback_ContextCancelled(t *testing.T) {
	a := &stubProvider{name: "a", text: "text"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFallback(a).Fetch(ctx, "abcdefghijk")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, a.Calls())
}

func TestFallback_ConcurrentCallers(t *testing.T) {
	a := &stubProvider{name: "a", text: "A"}
	b := &stubProvider{name: "b", text: "B"}
	f := NewFallback(a, b)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Fetch(context.Background(), "abcdefghijk")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, a.Calls()+b.Calls())
	assert.Equal(t, []string{"a", "b"}, f.Providers())
}
