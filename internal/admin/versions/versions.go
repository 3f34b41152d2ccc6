// Package versions resolves and caches dependency version strings shown on
// the admin dashboard.
package versions

import (
	"context"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Unknown is recorded for any component whose version could not be resolved.
const Unknown = "unknown"

// Component is one named dependency and its resolved version string.
type Component struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Resolver produces the version string for one component.
type Resolver struct {
	Name        string
	Description string
	Resolve     func(ctx context.Context) (string, error)
}

// Registry holds the resolved component list. It is constructed once at
// startup and read-only afterwards, so no locking is required.
type Registry struct {
	components []Component
}

// Resolve runs every resolver exactly once and caches the results for the
// process lifetime, preserving declaration order. A failing resolver
// degrades that component's version to Unknown; it never fails registry
// construction.
func Resolve(ctx context.Context, logger zerolog.Logger, resolvers ...Resolver) *Registry {
	components := make([]Component, 0, len(resolvers))
	for _, r := range resolvers {
		version, err := r.Resolve(ctx)
		if err != nil || version == "" {
			logger.Warn().Err(err).Str("component", r.Name).Msg("unable to resolve component version")
			version = Unknown
		}
		components = append(components, Component{
			Name:        r.Name,
			Version:     version,
			Description: r.Description,
		})
	}
	return &Registry{components: components}
}

// List returns the resolved components in declaration order. The returned
// slice is a copy; callers may not mutate the cache.
func (r *Registry) List() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// Get returns the resolved version for a component name, or Unknown when no
// such component was registered.
func (r *Registry) Get(name string) string {
	for _, c := range r.components {
		if c.Name == name {
			return c.Version
		}
	}
	return Unknown
}

// Static returns a resolver that always yields the given version string.
func Static(name, description, version string) Resolver {
	return Resolver{
		Name:        name,
		Description: description,
		Resolve: func(context.Context) (string, error) {
			return version, nil
		},
	}
}

// GoRuntime resolves the version of the Go toolchain this binary was built
// with.
func GoRuntime(name, description string) Resolver {
	return Resolver{
		Name:        name,
		Description: description,
		Resolve: func(context.Context) (string, error) {
			return runtime.Version(), nil
		},
	}
}

// Module resolves the version of a dependency module linked into the binary.
// A module that is not linked resolves to Unknown.
func Module(name, description, modulePath string) Resolver {
	return Resolver{
		Name:        name,
		Description: description,
		Resolve: func(context.Context) (string, error) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				return "", nil
			}
			for _, dep := range info.Deps {
				if dep.Path == modulePath {
					return dep.Version, nil
				}
			}
			return "", nil
		},
	}
}
