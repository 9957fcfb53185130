// Package netstatus reports whether the client can reach the network and
// notifies subscribers about every online/offline transition.
package netstatus

import "sync"

// Signal is a source of connectivity state.
//
// Subscribe returns a channel receiving the new state after each transition
// and a function that cancels the subscription and closes the channel.
type Signal interface {
	Online() bool
	Subscribe() (<-chan bool, func())
}

const subscriberBuffer = 8

// hub keeps the current state and fans transitions out to subscribers.
// Sends never block: a subscriber that falls behind by more than
// subscriberBuffer events loses the oldest ones.
type hub struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]chan bool
}

func newHub(initial bool) *hub {
	return &hub{online: initial, subs: make(map[int]chan bool)}
}

func (h *hub) Online() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

func (h *hub) Subscribe() (<-chan bool, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan bool, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// set stores v and reports whether it was a transition.
func (h *hub) set(v bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.online == v {
		return false
	}
	h.online = v

	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	return true
}

// Static is a manually controlled Signal.
type Static struct {
	*hub
}

func NewStatic(online bool) *Static {
	return &Static{hub: newHub(online)}
}

// Set changes the state and reports whether it was a transition.
func (s *Static) Set(online bool) bool {
	return s.set(online)
}
