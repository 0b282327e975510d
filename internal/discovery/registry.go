package discovery

import "sync"

// Registry accumulates calendar server URLs learned from gossiped
// CalendarAnnounce messages, de-duplicated, in first-seen order.
type Registry struct {
	mu      sync.Mutex
	seen    map[string]bool
	servers []string
}

// NewRegistry returns an empty Registry seeded with an initial server list
// (typically Config.CalendarServers).
func NewRegistry(seed []string) *Registry {
	r := &Registry{seen: make(map[string]bool)}
	for _, s := range seed {
		r.add(s)
	}
	return r
}

// Merge folds an announcement's servers into the registry.
func (r *Registry) Merge(a *CalendarAnnounce) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range a.Servers {
		r.add(s)
	}
}

func (r *Registry) add(server string) {
	if server == "" || r.seen[server] {
		return
	}
	r.seen[server] = true
	r.servers = append(r.servers, server)
}

// Servers returns the current known calendar server list, suitable for
// ots.Config.CalendarServers or ots.StampOptions.Servers.
func (r *Registry) Servers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.servers))
	copy(out, r.servers)
	return out
}

// Announce builds a CalendarAnnounce for this node's current registry,
// ready to publish to RegistryTopicName.
func (r *Registry) Announce() *CalendarAnnounce {
	return &CalendarAnnounce{Servers: r.Servers()}
}
