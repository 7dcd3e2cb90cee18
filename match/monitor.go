package match

import "github.com/poiesic/qamatch/core"

// SelectMonitor receives callbacks while a query is matched.
// Implementations must not retain the vector slices they are given.
type SelectMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	Scored(candidate core.Candidate, distance float64)
	Finish(result *core.MatchResult)
}

// noopMonitor is a no-op implementation of SelectMonitor
type noopMonitor struct{}

var _ SelectMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)    {}
func (n *noopMonitor) Scored(_ core.Candidate, _ float64) {}
func (n *noopMonitor) Finish(_ *core.MatchResult)         {}
