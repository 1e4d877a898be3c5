// Package registry provides a global registry for image source providers.
// Providers register themselves in init() functions, allowing frontends
// to discover and open sources without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/slidecam/internal/source"
)

// ErrUnknownProvider is returned by Create for unregistered IDs.
var ErrUnknownProvider = errors.New("registry: unknown provider")

// ProviderInfo contains metadata about a registered provider.
type ProviderInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new provider.
type Factory func() source.Provider

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a provider factory to the registry.
// Typically called from a provider package's init() function.
// Panics if a provider with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: provider %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered providers, sorted by ID.
func List() []ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ProviderInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ProviderInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a provider by its ID.
func Create(id string) (source.Provider, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, id)
	}

	return f(), nil
}

// Exists checks if a provider with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
