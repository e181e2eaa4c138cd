// Package codec centralizes array encoding for persistence.
//
// Codec selection is a format boundary: archives record the codec name in
// every blob header and select the codec by name on load, so blobs written
// with one codec stay readable after the default changes.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ErrDuplicate is returned by Register for a name that is already taken.
var ErrDuplicate = errors.New("codec: name already registered")

var registry = struct {
	sync.RWMutex
	byName map[string]Codec
}{
	byName: map[string]Codec{
		"binary":  Binary{},
		"json":    JSON{},
		"go-json": GoJSON{},
	},
}

// Register makes c selectable by name. Names are recorded in blob headers,
// so they must be non-empty, at most 255 bytes and stable across releases.
func Register(c Codec) error {
	name := c.Name()
	if name == "" || len(name) > 255 {
		return fmt.Errorf("codec: invalid name %q", name)
	}

	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	registry.byName[name] = c
	return nil
}

// ByName returns a registered codec by its stable name.
func ByName(name string) (Codec, bool) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.byName[name]
	return c, ok
}

// Names returns the sorted names of all registered codecs.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MustMarshal is a helper for tests and examples.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
