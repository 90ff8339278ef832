// Package meshkit normalizes vendor-defined mesh file formats into one
// in-memory topological mesh model. Format drivers implement the api.Driver
// contract; the package-level registry dispatches by probing each driver's
// file signature in turn.
package meshkit

import (
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/meshkit-io/meshkit/api"
	"github.com/meshkit-io/meshkit/internal/esritin"
	"github.com/meshkit-io/meshkit/internal/twodm"
)

// Registry holds a closed set of drivers. It is immutable after
// construction, so concurrent probes and loads on distinct file sets are
// safe.
type Registry struct {
	drivers []api.Driver
}

// NewRegistry builds the built-in driver set reading through the given
// filesystem. Tests pass a memfs; production code uses NewDefaultRegistry.
func NewRegistry(fs billy.Filesystem) *Registry {
	return &Registry{
		drivers: []api.Driver{
			twodm.New(fs),
			esritin.New(fs),
		},
	}
}

// NewDefaultRegistry builds the built-in driver set over the host
// filesystem.
func NewDefaultRegistry() *Registry {
	return NewRegistry(osfs.New("/"))
}

// Drivers describes the registered drivers.
func (r *Registry) Drivers() []api.Info {
	infos := make([]api.Info, len(r.drivers))
	for i, d := range r.drivers {
		infos[i] = d.Info()
	}
	return infos
}

// Probe returns the first driver whose signature check accepts the URI.
func (r *Registry) Probe(uri string) (api.Driver, bool) {
	for _, d := range r.drivers {
		if d.Probe(uri) {
			return d, true
		}
	}
	return nil, false
}

// Load dispatches to the first driver that recognizes the URI.
func (r *Registry) Load(uri string) (api.Mesh, error) {
	d, ok := r.Probe(uri)
	if !ok {
		return nil, fmt.Errorf("%w: no driver recognizes %s", api.ErrUnrecognizedFormat, uri)
	}
	return d.Load(uri)
}

// Save serializes the mesh through the named driver.
func (r *Registry) Save(driverName, uri string, m api.Mesh) error {
	for _, d := range r.drivers {
		info := d.Info()
		if info.Name != driverName {
			continue
		}
		saver, ok := d.(api.Saver)
		if !ok || !info.Capabilities.Has(api.CapSaveMesh) {
			return fmt.Errorf("%w: driver %s cannot save", api.ErrWriteFailure, driverName)
		}
		return saver.Save(uri, m)
	}
	return fmt.Errorf("%w: unknown driver %s", api.ErrWriteFailure, driverName)
}
