// Package tools defines the capability contract the orchestrator consumes:
// named tools with declared argument schemas, collected into a registry.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Func executes a tool. The returned value is always a plain object; by
// convention it carries {"success": bool, ...} but callers must tolerate
// tools that violate this.
type Func func(ctx context.Context, args map[string]any) (map[string]any, error)

// Tool is one named capability with a declared argument schema.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Fn          Func
}

// ValidateArgs validates the provided arguments against the tool's JSON
// schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(t.SchemaJSON),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}
		return &ValidationError{ToolName: t.Name, Errors: msgs}
	}
	return nil
}

// ValidationError indicates tool arguments failed schema validation.
type ValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Errors, "; "))
}

// Registry maps tool names to capabilities.
type Registry map[string]Tool

// Execute validates args and runs the named tool.
func (r Registry) Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s (available tools: %v)", name, r.Names())
	}
	if err := t.ValidateArgs(args); err != nil {
		return nil, fmt.Errorf("validation failed for tool %s: %w", name, err)
	}
	result, err := t.Fn(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("execution failed for tool %s: %w", name, err)
	}
	return result, nil
}

// Names returns the registered tool names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalogue renders the registry as prompt text so the model can select
// tools deterministically: one entry per tool with its argument schema.
func (r Registry) Catalogue() string {
	var sb strings.Builder
	for _, name := range r.Names() {
		t := r[name]
		fmt.Fprintf(&sb, "- %s: %s\n  args schema: %s\n", t.Name, t.Description, t.SchemaJSON)
	}
	return sb.String()
}
