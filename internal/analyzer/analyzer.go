// Package analyzer stands in for a real inference service. It waits for a
// random interval and then returns a canned diagnostic and precision pair.
package analyzer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"simdiag/internal/domain"
)

var diagnostics = []string{
	"Simulated: Potential anomaly detected.",
	"Simulated: Normal scan results.",
	"Simulated: Further investigation recommended.",
	"Simulated: Minor variations observed.",
	"Simulated: Clear indications of a specific condition.",
}

var precisions = []string{
	"Simulated details: The AI identified a subtle density variation in the superior lobe, consistent with early-stage fibrous tissue.",
	"Simulated details: No significant deviations from expected anatomical structures were found. All measurements are within normal ranges.",
	"Simulated details: A suspicious lesion with irregular borders was noted in the inferior medial quadrant, requiring immediate clinical correlation.",
	"Simulated details: Slight fluid accumulation was observed in the anterior chamber, which could be a benign finding but warrants monitoring.",
	"Simulated details: Distinct patterns of cellular proliferation were identified across multiple sections, strongly suggestive of a neoplastic process.",
}

// Diagnostics returns a copy of the diagnostic catalog.
func Diagnostics() []string {
	return append([]string(nil), diagnostics...)
}

// Precisions returns a copy of the precision catalog.
func Precisions() []string {
	return append([]string(nil), precisions...)
}

// Random is the source of every random choice the analyzer makes.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
	Int64N(n int64) int64
}

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int       { return rand.IntN(n) }
func (globalRandom) Int64N(n int64) int64 { return rand.Int64N(n) }

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*Analyzer)

func WithRandom(r Random) Option {
	return func(a *Analyzer) { a.random = r }
}

func WithSleeper(s Sleeper) Option {
	return func(a *Analyzer) { a.sleeper = s }
}

type Analyzer struct {
	minDelay time.Duration
	maxDelay time.Duration
	random   Random
	sleeper  Sleeper
}

func New(minDelay, maxDelay time.Duration, opts ...Option) (*Analyzer, error) {
	if minDelay < 0 || maxDelay < minDelay {
		return nil, fmt.Errorf("invalid delay range [%s, %s]", minDelay, maxDelay)
	}
	a := &Analyzer{
		minDelay: minDelay,
		maxDelay: maxDelay,
		random:   globalRandom{},
		sleeper:  timerSleeper{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Delay draws a latency uniformly from [minDelay, maxDelay].
func (a *Analyzer) Delay() time.Duration {
	span := a.maxDelay - a.minDelay
	if span <= 0 {
		return a.minDelay
	}
	return a.minDelay + time.Duration(a.random.Int64N(int64(span)+1))
}

// Analyze waits for the simulated latency and picks the diagnostic and the
// precision independently.
func (a *Analyzer) Analyze(ctx context.Context) (domain.AnalysisResult, error) {
	delay := a.Delay()
	if err := a.sleeper.Sleep(ctx, delay); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("simulated analysis interrupted: %w", err)
	}

	return domain.AnalysisResult{
		Diagnostic: diagnostics[a.random.IntN(len(diagnostics))],
		Precision:  precisions[a.random.IntN(len(precisions))],
		Delay:      delay,
	}, nil
}
