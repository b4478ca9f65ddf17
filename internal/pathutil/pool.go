package pathutil

import "sync"

// Record paths are "root/tag[i]", three segments.
const (
	defaultPathCap = 4
	maxPathCap     = 32
)

var builderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, defaultPathCap)}
	},
}

// Get returns an empty PathBuilder from the pool. Callers return it with Put.
func Get() *PathBuilder {
	p := builderPool.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put returns p to the pool. Builders that grew past maxPathCap are dropped.
func Put(p *PathBuilder) {
	if p == nil || cap(p.segments) > maxPathCap {
		return
	}
	builderPool.Put(p)
}
