package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRandom struct {
	ints   []int
	int64s []int64
}

func (r *scriptedRandom) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) Int64N(n int64) int64 {
	v := r.int64s[0]
	r.int64s = r.int64s[1:]
	return v % n
}

type recordingSleeper struct {
	slept []time.Duration
	err   error
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return s.err
}

func TestAnalyzePicksFromCatalogs(t *testing.T) {
	rnd := &scriptedRandom{ints: []int{2, 4}, int64s: []int64{500}}
	sleeper := &recordingSleeper{}

	a, err := New(time.Second, 3*time.Second, WithRandom(rnd), WithSleeper(sleeper))
	require.NoError(t, err)

	res, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Simulated: Further investigation recommended.", res.Diagnostic)
	assert.Equal(t, Precisions()[4], res.Precision)
	assert.Equal(t, time.Second+500, res.Delay)
	assert.Equal(t, []time.Duration{time.Second + 500}, sleeper.slept)
}

func TestAnalyzeUsesDefaultsWithinCatalogs(t *testing.T) {
	sleeper := &recordingSleeper{}
	a, err := New(time.Millisecond, 2*time.Millisecond, WithSleeper(sleeper))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		res, err := a.Analyze(context.Background())
		require.NoError(t, err)
		assert.Contains(t, Diagnostics(), res.Diagnostic)
		assert.Contains(t, Precisions(), res.Precision)
		assert.GreaterOrEqual(t, res.Delay, time.Millisecond)
		assert.LessOrEqual(t, res.Delay, 2*time.Millisecond)
	}
}

func TestAnalyzeSleepError(t *testing.T) {
	sleeper := &recordingSleeper{err: context.Canceled}
	a, err := New(0, 0, WithSleeper(sleeper))
	require.NoError(t, err)

	_, err = a.Analyze(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelayFixedRange(t *testing.T) {
	a, err := New(2*time.Second, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, a.Delay())
}

func TestNewRejectsInvalidRange(t *testing.T) {
	_, err := New(3*time.Second, time.Second)
	assert.Error(t, err)

	_, err = New(-time.Second, time.Second)
	assert.Error(t, err)
}

func TestTimerSleeperHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := timerSleeper{}.Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, timerSleeper{}.Sleep(context.Background(), time.Millisecond))
}

func TestCatalogsAreCopies(t *testing.T) {
	d := Diagnostics()
	d[0] = "changed"
	assert.NotEqual(t, "changed", Diagnostics()[0])
	assert.Len(t, Diagnostics(), 5)
	assert.Len(t, Precisions(), 5)
}
