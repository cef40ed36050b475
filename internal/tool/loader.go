package tool

// Loader presents role-scoped views over a fully instantiated tool set.
// It never mutates the underlying instances; assistants sharing one Loader
// share the same tool instances.
type Loader struct {
	allAvailableTools map[string]Tool
}

// NewLoader wraps the complete name→instance mapping produced by the
// factory.
func NewLoader(allAvailableTools map[string]Tool) *Loader {
	return &Loader{allAvailableTools: allAvailableTools}
}

// Load returns exactly the tools whose group tag is a member of groups.
// An empty or non-matching group set yields an empty mapping.
func (l *Loader) Load(groups ...string) map[string]Tool {
	wanted := make(map[string]bool, len(groups))
	for _, g := range groups {
		wanted[g] = true
	}

	loaded := make(map[string]Tool)
	for name, t := range l.allAvailableTools {
		if wanted[t.Group()] {
			loaded[name] = t
		}
	}
	return loaded
}

// All returns a copy of the complete mapping.
func (l *Loader) All() map[string]Tool {
	all := make(map[string]Tool, len(l.allAvailableTools))
	for name, t := range l.allAvailableTools {
		all[name] = t
	}
	return all
}
