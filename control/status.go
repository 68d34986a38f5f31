package control

import "sync/atomic"

// statusBox publishes FridgeStatus snapshots by atomic pointer swap, per
// the design note that status publication needs no listener registry
// inside the core: external collaborators pull the latest snapshot.
type statusBox struct {
	ptr atomic.Pointer[FridgeStatus]
}

func (b *statusBox) publish(s FridgeStatus) {
	b.ptr.Store(&s)
}

// load returns the latest published snapshot, or the zero value if
// nothing has been published yet.
func (b *statusBox) load() FridgeStatus {
	p := b.ptr.Load()
	if p == nil {
		return FridgeStatus{}
	}
	return *p
}

func (b *statusBox) published() bool {
	return b.ptr.Load() != nil
}
