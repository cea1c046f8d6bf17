package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/task"
)

// templateFile is the YAML shape `sexprt templates load` reads: a
// list of defatom-shaped template declarations, registered into the
// Task Registry at startup by the embedding host.
type templateFile struct {
	Templates []templateDecl `yaml:"templates"`
}

type templateDecl struct {
	Name             string            `yaml:"name"`
	Subtype          string            `yaml:"subtype"`
	Description      string            `yaml:"description"`
	Instructions     string            `yaml:"instructions"`
	PreferredModel   string            `yaml:"preferred_model"`
	FilePaths        []string          `yaml:"file_paths"`
	AutoContext      bool              `yaml:"auto_context"`
	ContextRelevance map[string]bool   `yaml:"context_relevance"`
	Parameters       []parameterDecl   `yaml:"parameters"`
	OutputFormat     *outputFormatDecl `yaml:"output_format"`
}

type parameterDecl struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Default     any    `yaml:"default"`
	Description string `yaml:"description"`
}

type outputFormatDecl struct {
	Type   string `yaml:"type"`
	Schema string `yaml:"schema"`
}

func (d templateDecl) toTemplate() *task.Template {
	tmpl := &task.Template{
		Name:             d.Name,
		Subtype:          d.Subtype,
		Description:      d.Description,
		Instructions:     d.Instructions,
		PreferredModel:   d.PreferredModel,
		FilePaths:        d.FilePaths,
		AutoContext:      d.AutoContext,
		ContextRelevance: d.ContextRelevance,
	}
	for _, p := range d.Parameters {
		tmpl.Parameters = append(tmpl.Parameters, task.Parameter{
			Name:        p.Name,
			Type:        task.ParamType(p.Type),
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	if d.OutputFormat != nil {
		of := &task.OutputFormat{Type: task.OutputFormatType(d.OutputFormat.Type)}
		if d.OutputFormat.Schema != "" {
			of.Schema = &ports.SchemaRef{Name: d.OutputFormat.Schema}
		}
		tmpl.OutputFormat = of
	}
	return tmpl
}

func newTemplatesCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage atomic task templates",
	}
	cmd.AddCommand(newTemplatesLoadCommand(configPath))
	cmd.AddCommand(newTemplatesListCommand(configPath))
	return cmd
}

func newTemplatesLoadCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Register templates declared in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			var file templateFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			for _, decl := range file.Templates {
				rt.Registry.Register(decl.toTemplate())
				fmt.Printf("%s registered %s\n", statusOK("+"), decl.Name)
			}
			return nil
		},
	}
}

func newTemplatesListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Explain that registered templates last only for one invocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(statusDim("no templates to list: templates registered by `templates load` exist only for that invocation, and the core persists no registry across invocations"))
			return nil
		},
	}
}
