package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/policy"
)

// projectFileName is the manifest every inline project must include.
const projectFileName = "bauplan_project.yml"

type projectRunInput struct {
	ProjectDir    string            `json:"project_dir" jsonschema:"path of the project directory on the server host, containing bauplan_project.yml"`
	Ref           string            `json:"ref,omitempty" jsonschema:"branch or ref to run against; non-dry runs may not target main"`
	Namespace     string            `json:"namespace,omitempty" jsonschema:"optional namespace for the run"`
	Parameters    map[string]any    `json:"parameters,omitempty" jsonschema:"optional run parameters"`
	DryRun        bool              `json:"dry_run,omitempty" jsonschema:"run on temporary sandboxed data without writing to the branch"`
	ClientTimeout int               `json:"client_timeout,omitempty" jsonschema:"optional timeout in seconds"`
}

type runOutput struct {
	JobID     string `json:"job_id"`
	JobStatus string `json:"job_status"`
}

func (t *Toolkit) handleProjectRun(ctx context.Context, _ *mcp.CallToolRequest, in projectRunInput) (*mcp.CallToolResult, runOutput, error) {
	if in.ProjectDir == "" {
		return nil, runOutput{}, fmt.Errorf("project_dir is required")
	}
	if err := checkRunTarget(in.Ref, in.DryRun); err != nil {
		return nil, runOutput{}, err
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, runOutput{}, err
	}

	state, err := client.Run(ctx, bauplan.RunArgs{
		ProjectDir:    in.ProjectDir,
		Ref:           in.Ref,
		Namespace:     in.Namespace,
		Parameters:    in.Parameters,
		DryRun:        in.DryRun,
		ClientTimeout: in.ClientTimeout,
	})
	if err != nil {
		return nil, runOutput{}, fmt.Errorf("running project %s: %w", in.ProjectDir, err)
	}
	return nil, runOutput{JobID: state.JobID, JobStatus: state.JobStatus}, nil
}

type codeRunInput struct {
	ProjectFiles  map[string]string `json:"project_files" jsonschema:"map of file name to file content; must include bauplan_project.yml, other files must end in .sql or .py"`
	Ref           string            `json:"ref,omitempty" jsonschema:"branch or ref to run against; non-dry runs may not target main"`
	Namespace     string            `json:"namespace,omitempty" jsonschema:"optional namespace for the run"`
	Parameters    map[string]any    `json:"parameters,omitempty" jsonschema:"optional run parameters"`
	DryRun        bool              `json:"dry_run,omitempty" jsonschema:"run on temporary sandboxed data without writing to the branch"`
	ClientTimeout int               `json:"client_timeout,omitempty" jsonschema:"optional timeout in seconds"`
}

func (t *Toolkit) handleCodeRun(ctx context.Context, _ *mcp.CallToolRequest, in codeRunInput) (*mcp.CallToolResult, runOutput, error) {
	if err := validateProjectFiles(in.ProjectFiles); err != nil {
		return nil, runOutput{}, err
	}
	if err := checkRunTarget(in.Ref, in.DryRun); err != nil {
		return nil, runOutput{}, err
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, runOutput{}, err
	}

	state, err := client.Run(ctx, bauplan.RunArgs{
		ProjectFiles:  in.ProjectFiles,
		Ref:           in.Ref,
		Namespace:     in.Namespace,
		Parameters:    in.Parameters,
		DryRun:        in.DryRun,
		ClientTimeout: in.ClientTimeout,
	})
	if err != nil {
		return nil, runOutput{}, fmt.Errorf("running inline project: %w", err)
	}
	return nil, runOutput{JobID: state.JobID, JobStatus: state.JobStatus}, nil
}

func validateProjectFiles(files map[string]string) error {
	if len(files) == 0 {
		return fmt.Errorf("project_files is required and must not be empty")
	}
	if _, ok := files[projectFileName]; !ok {
		return fmt.Errorf("project_files must contain %s", projectFileName)
	}
	for name := range files {
		if name == projectFileName {
			continue
		}
		if !strings.HasSuffix(name, ".sql") && !strings.HasSuffix(name, ".py") {
			return fmt.Errorf("unsupported project file %q: only .sql and .py files are allowed besides %s", name, projectFileName)
		}
	}
	return nil
}

// checkRunTarget rejects non-dry runs against the protected branch.
// The policy middleware enforces the same rule on the wire; this check
// also covers direct in-process callers.
func checkRunTarget(ref string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if ref == policy.ProtectedBranch {
		return fmt.Errorf("runs against the %s branch must set dry_run=true; use a development branch to materialize data", policy.ProtectedBranch)
	}
	return nil
}
