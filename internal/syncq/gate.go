package syncq

import "sync/atomic"

// Gate is the process-wide connectivity flag. The network-status
// collaborator flips it; everything else only reads it. The false->true
// edge fires OnOnline exactly once per transition.
type Gate struct {
	online   atomic.Bool
	OnOnline func()
}

func NewGate(online bool) *Gate {
	g := &Gate{}
	g.online.Store(online)
	return g
}

func (g *Gate) Online() bool { return g.online.Load() }

func (g *Gate) SetOnline(v bool) {
	prev := g.online.Swap(v)
	if !prev && v && g.OnOnline != nil {
		go g.OnOnline()
	}
}
