package tools

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// Builder constructs one tool from the shared dependency bag. A builder
// that cannot work without an absent dependency returns ErrMissingDependency
// so startup fails loudly instead of serving a partial tool set.
type Builder func(deps Deps) (tool.Tool, error)

// Registry is the startup-time catalog of tool builders. Registration
// happens once, explicitly, before Build; there is no runtime discovery.
type Registry struct {
	builders map[string]Builder
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds a builder under the tool name it will produce. Registering
// the same name twice is a programming error and fails immediately.
func (r *Registry) Register(name string, builder Builder) error {
	if _, exists := r.builders[name]; exists {
		return apperrors.NewDuplicateToolName(name)
	}
	r.builders[name] = builder
	r.order = append(r.order, name)
	return nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Build instantiates every registered tool against the dependency bag and
// returns the complete name→instance mapping. Any builder failure aborts
// the whole build; the instantiated descriptor must agree with the name the
// builder was registered under.
func (r *Registry) Build(deps Deps) (map[string]tool.Tool, error) {
	log := logger.Get()
	instances := make(map[string]tool.Tool, len(r.builders))

	names := r.Names()
	sort.Strings(names)
	for _, name := range names {
		t, err := r.builders[name](deps)
		if err != nil {
			return nil, err
		}

		declared := t.Descriptor().Name
		if declared != name {
			return nil, apperrors.NewBaseError(apperrors.ErrorTypeFactory,
				fmt.Sprintf("tool registered as %q declares name %q", name, declared), nil)
		}
		instances[name] = t

		log.Debug("Tool instantiated",
			zap.String("tool", name),
			zap.String("group", t.Group()),
		)
	}

	log.Info("Tool set built", zap.Int("tools", len(instances)))
	return instances, nil
}
