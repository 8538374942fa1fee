package dispatch

// Queue is an execution context. Tasks run one at a time, in Dispatch order.
// Dispatch never blocks on task execution of other callers and is safe for concurrent use.
type Queue interface {
	Dispatch(task func())
}
