package upload

import (
	"fmt"
	"slices"
	"sync"
)

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ProviderFactory)
)

// RegisterProvider registers a new upload provider
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s (available: %v)", name, Providers())
	}
	return factory(), nil
}

// Providers lists registered provider names in sorted order.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
}
