package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/hnthread/internal/domain"
)

// ShowConfigTemplateInput contains the input for the ShowConfigTemplate use case.
type ShowConfigTemplateInput struct {
	Config  *domain.Config // Values rendered as the commented defaults; nil means defaults
	Section string         // Only render this section, e.g. "fetch"; empty renders the whole file
}

// ShowConfigTemplateOutput contains the output of the ShowConfigTemplate use case.
type ShowConfigTemplateOutput struct {
	Template string // Rendered template
	Path     string // Where config --init writes the template
}

// ShowConfigTemplate renders the commented config file without writing it.
type ShowConfigTemplate struct {
	configManager domain.ConfigManager
}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate(configManager domain.ConfigManager) *ShowConfigTemplate {
	return &ShowConfigTemplate{configManager: configManager}
}

// Execute renders the template, optionally narrowed to one section.
func (uc *ShowConfigTemplate) Execute(_ context.Context, in ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	tmpl := domain.RenderConfigTemplate(cfg)
	if in.Section != "" {
		section, ok := templateSection(tmpl, in.Section)
		if !ok {
			return nil, fmt.Errorf("%q: %w", in.Section, domain.ErrUnknownConfigSection)
		}
		tmpl = section
	}

	return &ShowConfigTemplateOutput{
		Template: tmpl,
		Path:     uc.configManager.GlobalConfigPath(),
	}, nil
}

// templateSection extracts the [name] table header and its lines up to the
// next header. Trailing blank lines are dropped.
func templateSection(tmpl, name string) (string, bool) {
	header := "[" + name + "]"
	var lines []string
	inSection := false
	for _, line := range strings.Split(tmpl, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if inSection {
				break
			}
			inSection = trimmed == header
		}
		if inSection {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	for len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n", true
}
