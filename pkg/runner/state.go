package runner

// State tracks a task's lifecycle within one ExecutionRun.
//
// Pending -> Resolved -> {Skipped | Executing -> Succeeded | Executing -> Failed}
//
// Failed is terminal and aborts the run. Skipped and Succeeded both count as
// completed and satisfy any dependent awaiting the task.
type State int

const (
	StatePending State = iota
	StateResolved
	StateSkipped
	StateExecuting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateSkipped:
		return "skipped"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Completed reports whether the state satisfies dependents.
func (s State) Completed() bool {
	return s == StateSkipped || s == StateSucceeded
}

// Step is one audit entry of an ExecutionRun.
type Step struct {
	Task  string
	State State
}

// ExecutionRun is the transient record of a single runner invocation. It is
// created fresh per Run call and never shared between invocations.
type ExecutionRun struct {
	states map[string]State
	trail  []Step
}

func newExecutionRun() *ExecutionRun {
	return &ExecutionRun{states: make(map[string]State)}
}

// State returns the recorded state for the named task. Tasks the run never
// reached report StatePending.
func (r *ExecutionRun) State(name string) State {
	return r.states[name]
}

// Completed reports whether the named task finished (skipped or succeeded)
// within this run.
func (r *ExecutionRun) Completed(name string) bool {
	return r.states[name].Completed()
}

// Trail returns the ordered audit sequence of tasks that reached a terminal
// state in this run.
func (r *ExecutionRun) Trail() []Step {
	result := make([]Step, len(r.trail))
	copy(result, r.trail)
	return result
}

func (r *ExecutionRun) mark(name string, state State) {
	r.states[name] = state
}

func (r *ExecutionRun) finish(name string, state State) {
	r.states[name] = state
	r.trail = append(r.trail, Step{Task: name, State: state})
}
