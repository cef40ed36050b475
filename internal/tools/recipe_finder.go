package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
)

const (
	recipeToolName = "find_recipe_online"
	recipeCount    = 3
)

type recipeInput struct {
	Dish                string `json:"dish"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
}

type recipe struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	SourceURL   string   `json:"source_url,omitempty"`
}

// RecipeFinder asks the search model for a handful of recipes matching a
// dish description and optional dietary restrictions.
type RecipeFinder struct {
	tool.Base
	chat  adapter.ChatClient
	model string
}

func NewRecipeFinder(deps Deps) (tool.Tool, error) {
	if deps.Chat == nil {
		return nil, apperrors.NewMissingDependency(recipeToolName, "chat client")
	}
	if deps.SearchModel == "" {
		return nil, apperrors.NewMissingDependency(recipeToolName, "search model")
	}
	return &RecipeFinder{chat: deps.Chat, model: deps.SearchModel}, nil
}

func (r *RecipeFinder) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        recipeToolName,
		Description: "Find recipes for a dish, optionally honoring dietary restrictions. Returns a few candidate recipes with ingredients and steps.",
		Parameters: tool.ObjectSchema[recipeInput](map[string]string{
			"dish":                 "The dish or kind of meal to find recipes for, e.g. 'mushroom risotto'.",
			"dietary_restrictions": "Optional restrictions such as 'vegan' or 'gluten-free'.",
		}),
	}
}

func (r *RecipeFinder) Execute(ctx context.Context, args map[string]any) *tool.Result {
	var input recipeInput
	if err := tool.BindArguments(args, &input); err != nil {
		return tool.Errorf("Invalid arguments: %v", err)
	}
	if strings.TrimSpace(input.Dish) == "" {
		return tool.Errorf("A dish to search for is required.")
	}

	prompt := fmt.Sprintf("Find %d recipes for: %s", recipeCount, input.Dish)
	if input.DietaryRestrictions != "" {
		prompt += fmt.Sprintf("\nDietary restrictions: %s", input.DietaryRestrictions)
	}

	raw, err := r.chat.Complete(ctx, adapter.CompletionRequest{
		Model: r.model,
		SystemPrompt: "You are a recipe finder. Respond with a JSON array and nothing else. Each element has the form " +
			`{"name": "...", "ingredients": ["..."], "steps": ["..."], "source_url": "..."}.`,
		Prompt: prompt,
	})
	if err != nil {
		return tool.Errorf("Recipe search failed: %v", err)
	}

	var recipes []recipe
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &recipes); err != nil {
		return tool.Errorf("Could not parse the recipe results: %v", err)
	}
	if len(recipes) == 0 {
		return tool.Errorf("No recipes found for %q.", input.Dish)
	}

	data := make([]map[string]any, 0, len(recipes))
	for _, rec := range recipes {
		data = append(data, map[string]any{
			"name":        rec.Name,
			"ingredients": rec.Ingredients,
			"steps":       rec.Steps,
			"source_url":  rec.SourceURL,
		})
	}

	return &tool.Result{
		Summary: fmt.Sprintf("Found %d recipes for %q.", len(recipes), input.Dish),
		Data:    map[string]any{"recipes": data},
	}
}

// Render lists recipe names with their sources; the full ingredients and
// steps stay in the structured data for pinning.
func (r *RecipeFinder) Render(result *tool.Result) string {
	if result == nil {
		return ""
	}
	if result.IsError || result.Data == nil {
		return result.Summary
	}

	var b strings.Builder
	b.WriteString(result.Summary)
	for _, rec := range recipeMaps(result.Data["recipes"]) {
		name, _ := rec["name"].(string)
		b.WriteString("\n  - ")
		b.WriteString(name)
		if src, ok := rec["source_url"].(string); ok && src != "" {
			b.WriteString(" (")
			b.WriteString(src)
			b.WriteString(")")
		}
	}
	return b.String()
}

// RenderPinned shows the first pinned recipe in full. A snapshot missing
// the recipe shape is reported, not rendered half-empty.
func (r *RecipeFinder) RenderPinned(data map[string]any) string {
	recipes := recipeMaps(data["recipes"])
	if len(recipes) == 0 {
		return "Pinned object has invalid format."
	}
	first := recipes[0]

	name, _ := first["name"].(string)
	ingredients := stringSlice(first["ingredients"])
	steps := stringSlice(first["steps"])
	if name == "" || len(ingredients) == 0 || len(steps) == 0 {
		return "Pinned object has invalid format."
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString("\nIngredients:")
	for _, ing := range ingredients {
		b.WriteString("\n  - ")
		b.WriteString(ing)
	}
	b.WriteString("\nSteps:")
	for i, step := range steps {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, step)
	}
	return b.String()
}

// recipeMaps normalizes the recipes field, which is []map[string]any
// in-process and []any after a JSON round trip.
func recipeMaps(v any) []map[string]any {
	switch items := v.(type) {
	case []map[string]any:
		return items
	case []any:
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
