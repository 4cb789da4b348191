package inmemory

import "sync"

// pendingIdentities tracks identities of records created since the snapshot
// they were checked against. A reservation lives until the resource's
// snapshot is replaced; the refetched collection is authoritative after that.
type pendingIdentities struct {
	mu        sync.Mutex
	resources map[string]*pendingSet
}

type pendingSet struct {
	version uint64
	ids     map[string]struct{}
}

func newPendingIdentities() *pendingIdentities {
	return &pendingIdentities{resources: make(map[string]*pendingSet)}
}

// reserve claims id for resource at the given snapshot version.
// It returns false when the id is already claimed at that version.
func (p *pendingIdentities) reserve(resource, id string, version uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.resources[resource]
	if !ok || set.version != version {
		set = &pendingSet{version: version, ids: make(map[string]struct{})}
		p.resources[resource] = set
	}
	if _, taken := set.ids[id]; taken {
		return false
	}
	set.ids[id] = struct{}{}
	return true
}

// release drops a reservation whose create did not reach the backend
func (p *pendingIdentities) release(resource, id string, version uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if set, ok := p.resources[resource]; ok && set.version == version {
		delete(set.ids, id)
	}
}
