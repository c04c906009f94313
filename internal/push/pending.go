package push

import "sync"

// Pending is the process-wide single-slot holder for at most one undelivered
// payload.
//
// Replacement policy is newest-wins: a new actionable event unconditionally
// overwrites any payload that has not yet been taken. There is no queueing and
// no merging. Set and TakeIfPresent are atomic with respect to each other
// because cold-start extraction can run before the surface's dispatch context
// exists.
type Pending struct {
	mu      sync.Mutex
	payload Payload
	present bool
}

// NewPending creates an empty pending-delivery buffer.
func NewPending() *Pending {
	return &Pending{}
}

// Set stores a payload, overwriting any undelivered prior payload.
func (p *Pending) Set(payload Payload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payload = payload
	p.present = true
}

// TakeIfPresent atomically reads and clears the slot.
//
// The clear happens as part of the take, not after delivery confirmation, so a
// Set racing with an in-flight delivery is neither lost nor double-delivered.
// A take after a successful take returns false until the next Set.
func (p *Pending) TakeIfPresent() (Payload, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.present {
		return Payload{}, false
	}
	payload := p.payload
	p.payload = Payload{}
	p.present = false
	return payload, true
}
