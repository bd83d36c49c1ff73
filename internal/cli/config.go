package cli

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/hnthread/internal/app"
	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	var (
		initConfig, template bool
		section              string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Long: `Display the effective configuration after merging all sources.

Sources, later ones winning:
  1. Built-in defaults
  2. Global config (~/.config/hnthread/config.toml)
  3. Local config (.hnthread/config.toml)
  4. .env file and HNTHREAD_* environment variables

With --init, writes a commented global config file.
With --template, prints that file to stdout instead; --section narrows it
to one table, e.g. --template --section fetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case initConfig && template:
				return fmt.Errorf("--init and --template cannot be used together")
			case section != "" && !template:
				return fmt.Errorf("--section requires --template")
			case initConfig:
				out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "Created config file: %s\n", out.Path)
				return nil
			case template:
				out, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{
					Section: section,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(w, out.Template)
				return nil
			}

			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, path := range []string{out.GlobalPath, out.LocalPath} {
				if path == "" {
					continue
				}
				if _, err := os.Stat(path); err == nil {
					_, _ = fmt.Fprintf(w, "- %s\n", path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", path)
				}
			}
			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Config)
		},
	}

	cmd.Flags().BoolVar(&initConfig, "init", false, "Generate the global configuration file")
	cmd.Flags().BoolVar(&template, "template", false, "Print the configuration template")
	cmd.Flags().StringVar(&section, "section", "", "Limit --template to one section (api, fetch, tree, cache, log, tui)")

	return cmd
}

// formatEffectiveConfig formats the effective config in TOML format.
// Uses reflection to automatically handle domain.Config structure changes.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	output := make(map[string]any)

	cfgVal := reflect.ValueOf(cfg).Elem()
	cfgType := cfgVal.Type()
	for i := range cfgVal.NumField() {
		tagName := tomlName(cfgType.Field(i))
		sectionVal := cfgVal.Field(i)
		if tagName == "" || sectionVal.Kind() != reflect.Struct {
			continue
		}

		section := make(map[string]any)
		sectionType := sectionVal.Type()
		for j := range sectionVal.NumField() {
			key := tomlName(sectionType.Field(j))
			if key == "" {
				continue
			}
			val := sectionVal.Field(j).Interface()
			// Durations are written the way the loader reads them
			if d, ok := val.(time.Duration); ok {
				val = d.String()
			}
			section[key] = val
		}
		output[tagName] = section
	}

	// Encode to TOML
	if err := toml.NewEncoder(w).Encode(output); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// tomlName returns the key of a struct field from its toml tag.
func tomlName(field reflect.StructField) string {
	tag := field.Tag.Get("toml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}
