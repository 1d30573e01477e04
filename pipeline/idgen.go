package pipeline

import "sync"

// IDGenerator hands out incrementing frame ids starting at 1
type IDGenerator struct {
	id int64
	sync.Mutex
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next id
func (g *IDGenerator) Next() int64 {
	g.Lock()
	defer g.Unlock()
	g.id++
	return g.id
}
