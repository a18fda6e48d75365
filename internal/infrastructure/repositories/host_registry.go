package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	domainRepos "github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// HostFactory is a constructor function that creates a HostRepository given an auth token.
type HostFactory func(token string) domainRepos.HostRepository

type hostEntry struct {
	label   string
	factory HostFactory
}

// HostRegistry manages all registered Git host implementations.
type HostRegistry struct {
	hosts map[entities.HostType]hostEntry
}

var _ domainRepos.HostRepositoryProvider = (*HostRegistry)(nil)

// NewHostRegistry creates an empty host registry.
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		hosts: make(map[entities.HostType]hostEntry),
	}
}

// Register adds a host factory under the given type (e.g. "gitee").
func (r *HostRegistry) Register(hostType entities.HostType, label string, factory HostFactory) {
	r.hosts[hostType] = hostEntry{label: label, factory: factory}
}

// Get returns a configured host instance for the given type and token.
func (r *HostRegistry) Get(hostType entities.HostType, token string) (domainRepos.HostRepository, error) {
	entry, ok := r.hosts[hostType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown host type %q", entities.ErrConfiguration, hostType)
	}
	return entry.factory(token), nil
}

// Choices lists the registered hosts in a stable order for prompting.
func (r *HostRegistry) Choices() []entities.Choice {
	choices := make([]entities.Choice, 0, len(r.hosts))
	for hostType, entry := range r.hosts {
		choices = append(choices, entities.Choice{Name: entry.label, Value: string(hostType)})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Value < choices[j].Value })
	return choices
}
