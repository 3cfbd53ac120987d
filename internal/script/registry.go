package script

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

//go:embed tables/*.toml
var embedded embed.FS

// Registry loads script tables from a filesystem holding <id>.toml files.
// Each table is parsed at most once; afterwards the same *Table is returned
// to every caller.
type Registry struct {
	fsys    fs.FS
	loaders map[ID]func() (*Table, error)
}

// NewRegistry returns a registry reading tables from fsys.
func NewRegistry(fsys fs.FS) *Registry {
	r := &Registry{fsys: fsys, loaders: make(map[ID]func() (*Table, error), len(abugida))}
	for _, id := range IDs() {
		r.loaders[id] = sync.OnceValues(func() (*Table, error) { return r.read(id) })
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	sub, err := fs.Sub(embedded, "tables")
	if err != nil {
		panic(err)
	}
	return NewRegistry(sub)
})

// Default returns the process-wide registry over the embedded tables.
func Default() *Registry { return defaultRegistry() }

// OpenRegistry returns a registry over the <id>.toml files in dir, or the
// default registry when dir is empty.
func OpenRegistry(dir string) *Registry {
	if dir == "" {
		return Default()
	}
	return NewRegistry(os.DirFS(dir))
}

// Load returns the embedded table for id.
func Load(id ID) (*Table, error) { return Default().Load(id) }

// Load returns the table for id, parsing it on first use.
func (r *Registry) Load(id ID) (*Table, error) {
	load, ok := r.loaders[id]
	if !ok {
		return nil, &ConfigError{Script: string(id), Err: ErrUnknownScript}
	}
	return load()
}

func (r *Registry) read(id ID) (*Table, error) {
	data, err := fs.ReadFile(r.fsys, string(id)+".toml")
	if err != nil {
		return nil, &ConfigError{Script: string(id), Err: fmt.Errorf("read table: %w", err)}
	}
	return Parse(id, data)
}
