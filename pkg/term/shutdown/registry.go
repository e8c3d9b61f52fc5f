// ABOUTME: Process-wide ordered registry of idempotent cleanup tasks fired on normal termination.
// ABOUTME: Go has no JVM-style shutdown-hook facility, so Run must be invoked explicitly (typically deferred in main).

package shutdown

import "sync"

// Task is a cleanup action. Tasks must be idempotent: a terminal both
// removes itself from the registry in its own Close path and may be
// invoked by Run if Close raced it.
type Task func()

var (
	mu    sync.Mutex
	tasks []Task
	index map[*Task]int
)

func init() {
	index = make(map[*Task]int)
}

// Add registers task and returns a handle usable with Remove.
func Add(task Task) *Task {
	mu.Lock()
	defer mu.Unlock()

	h := &task
	index[h] = len(tasks)
	tasks = append(tasks, task)
	return h
}

// Remove deregisters the task identified by handle. Removing an
// already-removed or unknown handle is a no-op, keeping Remove
// idempotent.
func Remove(handle *Task) {
	mu.Lock()
	defer mu.Unlock()

	i, ok := index[handle]
	if !ok {
		return
	}
	delete(index, handle)
	tasks[i] = nil
}

// Run invokes every remaining registered task, in registration order,
// and clears the registry. Intended for `defer shutdown.Run()` in
// main, or from within a caught terminating signal; forced termination
// (SIGKILL, a crashing process) skips it entirely, same as any other
// deferred Go cleanup.
func Run() {
	mu.Lock()
	pending := tasks
	tasks = nil
	index = make(map[*Task]int)
	mu.Unlock()

	for _, t := range pending {
		if t != nil {
			t()
		}
	}
}
