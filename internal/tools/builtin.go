package tools

import "fmt"

// Builtin returns the registry of every shipped tool. Registration is
// explicit and happens here, once, so the complete tool surface is visible
// in one place.
func Builtin() (*Registry, error) {
	registry := NewRegistry()

	builders := []struct {
		name    string
		builder Builder
	}{
		{playlistToolName, NewPlaylistCreator},
		{recipeToolName, NewRecipeFinder},
		{factToolName, NewFactChecker},
		{mailToolName, NewMailSummarizer},
		{mailSwitchToolName, NewMailModeSwitcher},
		{masterSwitchToolName, NewMasterModeSwitcher},
	}

	for _, b := range builders {
		if err := registry.Register(b.name, b.builder); err != nil {
			return nil, fmt.Errorf("register %s: %w", b.name, err)
		}
	}
	return registry, nil
}
