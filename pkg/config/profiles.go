package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes one assistant role: the system prompt it runs with and
// the tool groups it loads.
type Profile struct {
	SystemPrompt string   `yaml:"system_prompt"`
	Groups       []string `yaml:"groups"`
}

// Profiles holds the per-role assistant configuration.
type Profiles struct {
	Master Profile `yaml:"master"`
	Mail   Profile `yaml:"mail"`
}

// DefaultProfiles returns the built-in assistant roles used when no
// profiles file is configured.
func DefaultProfiles() Profiles {
	return Profiles{
		Master: Profile{
			SystemPrompt: "You are an AI assistant named Thursday. " +
				"You are slightly sarcastic and witty, but always helpful. " +
				"You have access to a set of tools that you can call to get information or perform actions. " +
				"Only call a tool when the user explicitly requests it or when you need it to answer a question that you cannot answer directly. " +
				"Always return the tool's output in your response when you call a tool.",
			Groups: []string{"general"},
		},
		Mail: Profile{
			SystemPrompt: "You are an AI Assistant specialized in handling email-related tasks. " +
				"You can help users manage their emails by summarizing them, searching for specific emails, and answering questions about them. " +
				"Always be concise and clear in your responses, and ensure that you understand the user's request before taking any action. " +
				"You are perfectly professional and prefer to not engage in small talk. " +
				"Nudge the user to use your email related tools or switch back to the main assistant.",
			Groups: []string{"email", "sub_assistant"},
		},
	}
}

// LoadProfiles reads assistant profiles from the configured YAML file,
// falling back to the defaults for any field left empty. A missing path
// returns the defaults unchanged.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profiles, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var override Profiles
	if err := yaml.Unmarshal(data, &override); err != nil {
		return profiles, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	merge(&profiles.Master, override.Master)
	merge(&profiles.Mail, override.Mail)
	return profiles, nil
}

func merge(dst *Profile, src Profile) {
	if src.SystemPrompt != "" {
		dst.SystemPrompt = src.SystemPrompt
	}
	if len(src.Groups) > 0 {
		dst.Groups = src.Groups
	}
}
