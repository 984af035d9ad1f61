package engine

import "turtlebot/pkg/transposition"

// Stats counts the work done by one search
type Stats struct {
	Visited     uint // nodes entered, leaves included
	Evaluated   uint // leaves handed to the evaluator
	Cutoffs     uint // nodes abandoned because beta <= alpha
	CacheHits   uint
	CacheMisses uint
}

// ResetStats will reset the statistics of the engine
func (e *Engine) ResetStats() {
	e.stats = Stats{}
	e.cacheMark = e.table.Stats()
}

// Stats returns the counters of the last search, cache traffic included
func (e *Engine) Stats() Stats {
	s := e.stats
	now := e.table.Stats()
	s.CacheHits = now.Hits - e.cacheMark.Hits
	s.CacheMisses = now.Misses - e.cacheMark.Misses
	return s
}

// CacheStats returns the lifetime counters of the evaluation cache
func (e *Engine) CacheStats() transposition.Stats {
	return e.table.Stats()
}

// CacheLen returns the number of cached evaluations
func (e *Engine) CacheLen() int {
	return e.table.Len()
}
