package treatment

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A Constructor builds a fresh method instance for the registry.
type Constructor func() Method

var methodRegistry = make(map[string]Constructor)

// Register adds a named method constructor to the registry. Registering the
// same name twice, or a nil constructor, panics.
func Register(name string, ctor Constructor) {
	if _, old := methodRegistry[name]; old {
		panic(errors.Errorf("trying to register two treatment methods with the same name: %s", name))
	}
	if ctor == nil {
		panic(errors.Errorf("cannot register a nil constructor for treatment method: %s", name))
	}
	methodRegistry[name] = ctor
}

// New looks up a treatment method by name and constructs a fresh instance.
func New(name string) (Method, error) {
	ctor, ok := methodRegistry[name]
	if !ok {
		return nil, errors.Errorf("cannot find treatment method %q in registry (have: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the sorted names of all registered methods.
func Names() []string {
	names := make([]string, 0, len(methodRegistry))
	for name := range methodRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("black_filter", func() Method { return NewBlackFilter() })
	Register("black_mask", func() Method { return NewBlackMask() })
	Register("color_filter", func() Method { return NewColorFilter() })
	Register("component_detection", func() Method { return NewComponentDetection() })
	Register("edge_detection", func() Method { return NewEdgeDetection() })
	Register("id", func() Method { return NewIdentity() })
	Register("threshold", func() Method { return NewThresholding() })
}
