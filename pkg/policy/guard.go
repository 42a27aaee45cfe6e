// Package policy enforces the protected-branch rule: destructive or
// history-rewriting operations must never target the production branch.
// The guard runs at the dispatch layer, before any tool handler and
// therefore before any call leaves the process.
package policy

import (
	"fmt"
)

// ProtectedBranch is the production branch. Writes and deletes that
// target it are rejected locally. This is defense in depth on top of
// the platform's own authorization, not a replacement for it.
const ProtectedBranch = "main"

// rule describes how a destructive tool names its target ref.
type rule struct {
	// refArgs are the argument keys whose values are compared against
	// the protected branch.
	refArgs []string

	// dryRunExempt allows the call through when its dry_run argument is
	// true; pipeline dry runs against main are explicitly permitted.
	dryRunExempt bool
}

// destructiveTools classifies the tool surface. Tools absent from this
// map are read-only or write to targets that are not refs (tag names)
// and pass through unchecked.
var destructiveTools = map[string]rule{
	"delete_branch":    {refArgs: []string{"branch"}},
	"delete_table":     {refArgs: []string{"branch"}},
	"delete_namespace": {refArgs: []string{"branch"}},
	"merge_branch":     {refArgs: []string{"into_branch"}},
	"revert_table":     {refArgs: []string{"into_branch"}},
	"create_table":     {refArgs: []string{"branch"}},
	"create_namespace": {refArgs: []string{"branch"}},
	"import_data":      {refArgs: []string{"branch"}},
	"project_run":      {refArgs: []string{"ref"}, dryRunExempt: true},
	"code_run":         {refArgs: []string{"ref"}, dryRunExempt: true},
}

// ViolationError reports a rejected call. It is raised before the
// lakehouse client is constructed, so no partial side effects are
// possible.
type ViolationError struct {
	Tool   string
	Branch string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("policy violation: %s may not target the protected branch %q", e.Tool, e.Branch)
}

// Check inspects one tool call's arguments and returns a
// *ViolationError when a destructive operation targets the protected
// branch. The check is pure string equality against the declared ref
// argument; it never inspects lakehouse state.
func Check(tool string, args map[string]any) error {
	r, ok := destructiveTools[tool]
	if !ok {
		return nil
	}

	if r.dryRunExempt {
		if dry, ok := args["dry_run"].(bool); ok && dry {
			return nil
		}
	}

	for _, key := range r.refArgs {
		target, ok := args[key].(string)
		if !ok {
			continue
		}
		if target == ProtectedBranch {
			return &ViolationError{Tool: tool, Branch: target}
		}
	}
	return nil
}
