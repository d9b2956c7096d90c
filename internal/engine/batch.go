package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/vectorbench/vectorbench/internal/sim"
	"github.com/vectorbench/vectorbench/internal/vector"
)

// CaseOutcome is the result of executing one test case within a batch.
type CaseOutcome struct {
	// Name is the test case's display name ("unnamed" for empty labels).
	Name string

	// ElapsedMs is the wall time the case took, per the runner's clock.
	ElapsedMs int64

	// Result is the executed result. Nil when Err is set before any row
	// could produce a table.
	Result *TestResult

	// Err is the execution error that aborted the case, if any.
	Err error
}

// Failed reports whether the case counts against the batch failure count.
func (o CaseOutcome) Failed() bool {
	return o.Err != nil || o.Result == nil || !o.Result.AllPassed()
}

// BatchRunner executes test cases sequentially against one simulation.
// A failure in one case never aborts the batch: the outcome records it and
// the runner proceeds with the next case, each with a fresh ErrorDetector.
type BatchRunner struct {
	executor *Executor
	logger   *slog.Logger

	// nowMs supplies the clock for ElapsedMs. Injectable so reports are
	// byte-reproducible under test.
	nowMs func() int64
}

// NewBatchRunner creates a runner using the wall clock.
func NewBatchRunner(executor *Executor, logger *slog.Logger) *BatchRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BatchRunner{
		executor: executor,
		logger:   logger,
		nowMs:    func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock replaces the elapsed-time source.
func (b *BatchRunner) SetClock(nowMs func() int64) {
	b.nowMs = nowMs
}

// Run executes every test case in order and returns one outcome per case.
func (b *BatchRunner) Run(cases []vector.TestCase, s sim.Simulation) []CaseOutcome {
	outcomes := make([]CaseOutcome, 0, len(cases))

	for i := range cases {
		tc := &cases[i]
		det := sim.NewErrorDetector()

		start := b.nowMs()
		result, err := b.executor.Execute(tc, s, det)
		elapsed := b.nowMs() - start

		outcome := CaseOutcome{
			Name:      tc.DisplayName(),
			ElapsedMs: elapsed,
			Result:    result,
			Err:       err,
		}
		outcomes = append(outcomes, outcome)

		switch {
		case err != nil:
			b.logger.Info("test case errored", "test", outcome.Name, "error", err)
		case outcome.Failed():
			b.logger.Info("test case failed", "test", outcome.Name, "mismatches", result.Mismatches())
		default:
			b.logger.Info("test case passed", "test", outcome.Name, "elapsed_ms", elapsed)
		}
	}

	return outcomes
}
