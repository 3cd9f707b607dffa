package global

import "sync"

// Team holds the membership and ordering state a collective operation
// needs, addressed by the Request.Team field (spec §3/§6).
type Team struct {
	ID        uint64
	Members   []int32
	Root      int32
	Strided   bool
	Stride    int32
	StartPE   int32
	TeamSize  int32
}

// TeamPool is a sharded, thread-safe registry of teams, ported from the
// teacher's internal/session/store.go sharded map — keyed by the
// uint64 team id directly instead of hashing a string id.
type TeamPool struct {
	shards []*teamShard
	mask   uint64
}

type teamShard struct {
	mu    sync.RWMutex
	teams map[uint64]*Team
}

// NewTeamPool constructs a pool with shardCount shards, rounded up to
// the next power of two.
func NewTeamPool(shardCount int) *TeamPool {
	if shardCount <= 0 {
		shardCount = 16
	}
	n := nextPowerOfTwo(uint64(shardCount))
	shards := make([]*teamShard, n)
	for i := range shards {
		shards[i] = &teamShard{teams: make(map[uint64]*Team)}
	}
	return &TeamPool{shards: shards, mask: n - 1}
}

func (p *TeamPool) shard(id uint64) *teamShard {
	return p.shards[id&p.mask]
}

// Put registers or replaces a team.
func (p *TeamPool) Put(t *Team) {
	sh := p.shard(t.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.teams[t.ID] = t
}

// Get fetches a team by id.
func (p *TeamPool) Get(id uint64) (*Team, bool) {
	sh := p.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	t, ok := sh.teams[id]
	return t, ok
}

// Delete removes a team, e.g. on team_destroy.
func (p *TeamPool) Delete(id uint64) {
	sh := p.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.teams, id)
}

// Range applies fn to every team across all shards.
func (p *TeamPool) Range(fn func(*Team)) {
	for _, sh := range p.shards {
		sh.mu.RLock()
		for _, t := range sh.teams {
			fn(t)
		}
		sh.mu.RUnlock()
	}
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
