package hazards

import "github.com/zyedidia/generic/mapset"

type visit struct {
	hazardID string
	state    string
}

// Chain is the short-lived context of one transition cascade. Within a chain a
// hazard may not be sent to a state it has already been sent to, and the same
// reaction-check is not started twice. A Chain is never stored on an instance.
type Chain struct {
	visited mapset.Set[visit]
	checks  mapset.Set[visit]
}

// NewChain opens a fresh resolution chain
func NewChain() *Chain {
	return &Chain{
		visited: mapset.New[visit](),
		checks:  mapset.New[visit](),
	}
}

// Visited reports whether hazardID has been sent to state in this chain
func (c *Chain) Visited(hazardID, state string) bool {
	return c.visited.Has(visit{hazardID, state})
}

// Len returns how many (hazard, state) pairs the chain has seen
func (c *Chain) Len() int {
	return c.visited.Size()
}

func (c *Chain) enter(hazardID, state string) {
	c.visited.Put(visit{hazardID, state})
}

// claimTransition records an outgoing transition. false means it was already
// visited and must be suppressed.
func (c *Chain) claimTransition(hazardID, state string) bool {
	v := visit{hazardID, state}
	if c.visited.Has(v) {
		return false
	}
	c.visited.Put(v)
	return true
}

func (c *Chain) claimCheck(hazardID, state string) bool {
	v := visit{hazardID, state}
	if c.checks.Has(v) {
		return false
	}
	c.checks.Put(v)
	return true
}
