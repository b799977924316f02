package replay

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Outcome pairs a replay result with its error.
type Outcome struct {
	Result Result
	Err    error
}

// RunBatch replays traces concurrently on a dynamic worker pool. Outcomes are returned in
// trace order regardless of completion order.
//
// Parameters:
//   - traces: the traces to replay
//   - workers: maximum concurrent replays (values <= 0 use one worker)
//
// Returns:
//   - []Outcome: one outcome per trace
func RunBatch(traces []Trace, workers int) []Outcome {
	outcomes := make([]Outcome, len(traces))
	if len(traces) == 0 {
		return outcomes
	}

	pool := worker.NewDynamicWorkerPool(workers, len(traces), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, tr := range traces {
		wg.Add(1)
		idx, trCap := i, tr
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				res, err := Run(trCap)
				outcomes[idx] = Outcome{Result: res, Err: err}
				return res, err
			},
		})
	}
	wg.Wait()
	return outcomes
}
