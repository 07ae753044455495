package graph

import "sync"

// =============================================================================
// Graph Pool
// =============================================================================

// GraphPool reuses ResidualGraph instances and the scratch maps the
// solvers allocate per iteration. Scenario runs build a fresh residual
// network per scenario, and pooling keeps that from churning the GC.
type GraphPool struct {
	graphs    sync.Pool
	int64Maps sync.Pool
	floatMaps sync.Pool
	boolMaps  sync.Pool
}

// NewGraphPool creates a pool with lazily allocated members.
func NewGraphPool() *GraphPool {
	return &GraphPool{
		graphs: sync.Pool{
			New: func() any { return NewResidualGraph() },
		},
		int64Maps: sync.Pool{
			New: func() any { return make(map[int64]int64, 64) },
		},
		floatMaps: sync.Pool{
			New: func() any { return make(map[int64]float64, 64) },
		},
		boolMaps: sync.Pool{
			New: func() any { return make(map[int64]bool, 64) },
		},
	}
}

// GetGraph returns a cleared graph from the pool.
func (p *GraphPool) GetGraph() *ResidualGraph {
	g := p.graphs.Get().(*ResidualGraph)
	g.Clear()
	return g
}

// PutGraph returns a graph to the pool.
func (p *GraphPool) PutGraph(g *ResidualGraph) {
	if g != nil {
		p.graphs.Put(g)
	}
}

// GetInt64Map returns a cleared map[int64]int64 from the pool.
func (p *GraphPool) GetInt64Map() map[int64]int64 {
	m := p.int64Maps.Get().(map[int64]int64)
	clear(m)
	return m
}

// PutInt64Map returns a map to the pool.
func (p *GraphPool) PutInt64Map(m map[int64]int64) {
	if m != nil {
		p.int64Maps.Put(m)
	}
}

// GetFloatMap returns a cleared map[int64]float64 from the pool.
func (p *GraphPool) GetFloatMap() map[int64]float64 {
	m := p.floatMaps.Get().(map[int64]float64)
	clear(m)
	return m
}

// PutFloatMap returns a map to the pool.
func (p *GraphPool) PutFloatMap(m map[int64]float64) {
	if m != nil {
		p.floatMaps.Put(m)
	}
}

// GetBoolMap returns a cleared map[int64]bool from the pool.
func (p *GraphPool) GetBoolMap() map[int64]bool {
	m := p.boolMaps.Get().(map[int64]bool)
	clear(m)
	return m
}

// PutBoolMap returns a map to the pool.
func (p *GraphPool) PutBoolMap(m map[int64]bool) {
	if m != nil {
		p.boolMaps.Put(m)
	}
}

var globalPool = NewGraphPool()

// GetPool returns the process-wide graph pool.
func GetPool() *GraphPool {
	return globalPool
}
