package observability

import (
	"sync"
)

// Metrics provides basic in-memory counters for commands and tasks.
type Metrics struct {
	mu           sync.Mutex
	commandCount int64
	taskCount    map[string]int64
	failCount    map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		taskCount: make(map[string]int64),
		failCount: make(map[string]int64),
	}
}

// RecordCommand increments the processed-command counter.
func (m *Metrics) RecordCommand() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount++
}

// RecordTask counts one executed task by action and status.
func (m *Metrics) RecordTask(action string, success bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskCount[action]++
	if !success {
		m.failCount[action]++
	}
}

// Snapshot returns copies of the counters for reporting.
func (m *Metrics) Snapshot() (commands int64, tasks, fails map[string]int64) {
	if m == nil {
		return 0, nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks = make(map[string]int64, len(m.taskCount))
	for k, v := range m.taskCount {
		tasks[k] = v
	}
	fails = make(map[string]int64, len(m.failCount))
	for k, v := range m.failCount {
		fails[k] = v
	}
	return m.commandCount, tasks, fails
}
