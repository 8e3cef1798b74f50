// Package workers runs the relay's background loops. It defines the Worker
// interface and a Workers aggregate that starts each worker on its own
// goroutine; the batch relay loop is the primary worker.
package workers

// Worker is implemented by any background loop. Run starts the worker's
// execution; implementations are expected to block for the duration of
// their work or spawn goroutines internally.
type Worker interface {
	Run()
}
