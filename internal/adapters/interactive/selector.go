package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/config"
	"github.com/pithos-gov/pithos/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectMotion selects a motion from a list
func (s *SelectorAdapter) SelectMotion(ctx context.Context, motions []*domain.Motion, prompt string) (*domain.Motion, error) {
	if len(motions) == 0 {
		return nil, fmt.Errorf("%w: no motions to choose from", domain.ErrNotFound)
	}
	if len(motions) == 1 {
		return motions[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("%d motions match, pass a motion id in non-interactive mode", len(motions))
	}

	options := formatMotionOptions(motions)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher:  createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return motions[index], nil
}

// formatMotionOptions renders "#id description (N options)"
func formatMotionOptions(motions []*domain.Motion) []string {
	options := make([]string, len(motions))
	for i, m := range motions {
		id := color.New(color.FgWhite, color.Bold).Sprintf("#%d", m.ID)
		count := color.New(color.FgBlue).Sprintf("%d options", len(m.Options))
		options[i] = fmt.Sprintf("%s %s (%s)", id, m.Description, count)
	}
	return options
}

func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.MotionSelector = (*SelectorAdapter)(nil)
