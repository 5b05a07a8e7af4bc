package roles

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dusk-indust/crosscheck/internal/llm"
)

// AgentFactory constructs an Agent for a role.
type AgentFactory func(def Definition) Agent

// Registry maps roles to agent factories and manages the lifecycle of the
// agents it spawns.
type Registry struct {
	mu        sync.Mutex
	factories map[Name]AgentFactory
	spawned   []Agent
}

// NewRegistry creates a Registry in which every role builds a model-backed
// RoleAgent on the given client.
func NewRegistry(client llm.Client, log *zap.Logger) *Registry {
	r := &Registry{
		factories: make(map[Name]AgentFactory),
	}
	for _, def := range All() {
		r.factories[def.Name] = func(d Definition) Agent {
			return NewRoleAgent(d, client, log)
		}
	}
	return r
}

// Register replaces the factory for a role. Tests use this to swap in canned
// agents.
func (r *Registry) Register(name Name, factory AgentFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Spawn creates a single agent by role without starting it.
func (r *Registry) Spawn(name Name) (Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("roles: unknown role %q", name)
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("roles: no factory registered for role %q", name)
	}

	ag := factory(def)
	r.spawned = append(r.spawned, ag)
	return ag, nil
}

// SpawnAll creates and starts one agent per role, assigning sequential ports
// from basePort in declaration order. Endpoints maps each role to its base
// URL. On any start failure the already-started agents are stopped.
func (r *Registry) SpawnAll(ctx context.Context, basePort int) (map[Name]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	endpoints := make(map[Name]string, len(definitions))
	var started []Agent

	stop := func() {
		for i := len(started) - 1; i >= 0; i-- {
			_ = started[i].Stop(ctx)
		}
	}

	for i, def := range All() {
		factory, ok := r.factories[def.Name]
		if !ok {
			stop()
			return nil, fmt.Errorf("roles: no factory registered for role %q", def.Name)
		}

		ag := factory(def)
		addr := fmt.Sprintf("127.0.0.1:%d", basePort+i)
		if err := ag.Start(ctx, addr); err != nil {
			stop()
			return nil, fmt.Errorf("roles: start agent %q on %s: %w", def.Name, addr, err)
		}

		started = append(started, ag)
		endpoints[def.Name] = "http://" + addr
	}

	r.spawned = append(r.spawned, started...)
	return endpoints, nil
}

// StopAll gracefully stops all spawned agents in reverse start order.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for i := len(r.spawned) - 1; i >= 0; i-- {
		if err := r.spawned[i].Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.spawned = nil
	return firstErr
}
