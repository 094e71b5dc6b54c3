package search

import (
	"time"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Monitor provides hooks to observe a failover search.
// Implement this interface to track instance attempts and outcomes.
type Monitor interface {
	Start(query string)
	Attempt(instance string, position, total int)
	Failure(instance, reason string)
	Success(instance string, results int, elapsed time.Duration)
	Exhausted(lastErr string)
	Finish(envelope *core.Envelope)
}

// NoopMonitor ignores every event. Embed it to implement only the
// hooks you care about.
type NoopMonitor struct{}

var _ Monitor = NoopMonitor{}

func (NoopMonitor) Start(string)                       {}
func (NoopMonitor) Attempt(string, int, int)           {}
func (NoopMonitor) Failure(string, string)             {}
func (NoopMonitor) Success(string, int, time.Duration) {}
func (NoopMonitor) Exhausted(string)                   {}
func (NoopMonitor) Finish(*core.Envelope)              {}
