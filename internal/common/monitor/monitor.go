package monitor

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stats represents per-session command statistics
type Stats struct {
	StartTime time.Time
	Commands  map[string]uint64
	Failures  uint64
}

// Total returns the number of commands recorded
func (s Stats) Total() uint64 {
	var total uint64
	for _, n := range s.Commands {
		total += n
	}
	return total
}

// Monitor counts the commands a session runs
type Monitor struct {
	stats Stats
	mutex sync.RWMutex
}

// New creates a new command monitor
func New() *Monitor {
	return &Monitor{
		stats: Stats{
			StartTime: time.Now(),
			Commands:  make(map[string]uint64),
		},
	}
}

// Record counts one invocation of command and whether it failed
func (m *Monitor) Record(command string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stats.Commands[command]++
	if err != nil {
		m.stats.Failures++
	}
}

// GetStats returns a copy of the current statistics
func (m *Monitor) GetStats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	commands := make(map[string]uint64, len(m.stats.Commands))
	for name, n := range m.stats.Commands {
		commands[name] = n
	}
	return Stats{
		StartTime: m.stats.StartTime,
		Commands:  commands,
		Failures:  m.stats.Failures,
	}
}

// Report logs the current statistics
func (m *Monitor) Report(log *zap.Logger) {
	stats := m.GetStats()

	names := make([]string, 0, len(stats.Commands))
	for name := range stats.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := []zap.Field{
		zap.Uint64("commands", stats.Total()),
		zap.Uint64("failures", stats.Failures),
		zap.Duration("uptime", time.Since(stats.StartTime)),
	}
	for _, name := range names {
		fields = append(fields, zap.Uint64("cmd_"+name, stats.Commands[name]))
	}
	log.Info("Session statistics", fields...)
}
