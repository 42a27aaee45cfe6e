package refs

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

const defaultListLimit = 10

type getBranchesInput struct {
	Name  string `json:"name,omitempty" jsonschema:"optional substring filter on branch names"`
	User  string `json:"user,omitempty" jsonschema:"optional filter by owning user"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of branches to return, defaults to 10"`
}

type getBranchesOutput struct {
	Branches   []bauplan.Branch `json:"branches"`
	TotalCount int              `json:"total_count"`
}

func (t *Toolkit) handleGetBranches(ctx context.Context, _ *mcp.CallToolRequest, in getBranchesInput) (*mcp.CallToolResult, getBranchesOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getBranchesOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	branches, err := client.GetBranches(ctx, in.Name, in.User, limit)
	if err != nil {
		return nil, getBranchesOutput{}, fmt.Errorf("listing branches: %w", err)
	}
	return nil, getBranchesOutput{Branches: branches, TotalCount: len(branches)}, nil
}

type createBranchInput struct {
	Branch  string `json:"branch" jsonschema:"name of the new branch, format <username.branch_name>"`
	FromRef string `json:"from_ref" jsonschema:"ref to branch from: a branch name or a commit hash (@ plus 64 hex characters)"`
}

type createBranchOutput struct {
	Created bool   `json:"created"`
	Name    string `json:"name,omitempty"`
	Hash    string `json:"hash,omitempty"`
	Message string `json:"message,omitempty"`
}

func (t *Toolkit) handleCreateBranch(ctx context.Context, _ *mcp.CallToolRequest, in createBranchInput) (*mcp.CallToolResult, createBranchOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, createBranchOutput{}, err
	}

	branch, err := client.CreateBranch(ctx, in.Branch, in.FromRef)
	if err != nil {
		return nil, createBranchOutput{}, fmt.Errorf("creating branch %s: %w", in.Branch, err)
	}
	return nil, createBranchOutput{
		Created: true,
		Name:    branch.Name,
		Hash:    branch.Hash,
		Message: fmt.Sprintf("branch %s created from %s", branch.Name, in.FromRef),
	}, nil
}

type hasBranchInput struct {
	Branch string `json:"branch" jsonschema:"name of the branch"`
}

type hasBranchOutput struct {
	Exists bool   `json:"exists"`
	Branch string `json:"branch"`
}

func (t *Toolkit) handleHasBranch(ctx context.Context, _ *mcp.CallToolRequest, in hasBranchInput) (*mcp.CallToolResult, hasBranchOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, hasBranchOutput{}, err
	}

	exists, err := client.HasBranch(ctx, in.Branch)
	if err != nil {
		return nil, hasBranchOutput{}, fmt.Errorf("checking branch %s: %w", in.Branch, err)
	}
	return nil, hasBranchOutput{Exists: exists, Branch: in.Branch}, nil
}

type deleteBranchInput struct {
	Branch string `json:"branch" jsonschema:"name of the branch to delete; must not be main"`
}

type deleteBranchOutput struct {
	Deleted bool   `json:"deleted"`
	Branch  string `json:"branch"`
	Message string `json:"message,omitempty"`
}

func (t *Toolkit) handleDeleteBranch(ctx context.Context, _ *mcp.CallToolRequest, in deleteBranchInput) (*mcp.CallToolResult, deleteBranchOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, deleteBranchOutput{}, err
	}

	if err := client.DeleteBranch(ctx, in.Branch); err != nil {
		return nil, deleteBranchOutput{}, fmt.Errorf("deleting branch %s: %w", in.Branch, err)
	}
	return nil, deleteBranchOutput{
		Deleted: true,
		Branch:  in.Branch,
		Message: fmt.Sprintf("branch %s deleted", in.Branch),
	}, nil
}

type mergeBranchInput struct {
	SourceRef     string `json:"source_ref" jsonschema:"ref to merge from"`
	IntoBranch    string `json:"into_branch" jsonschema:"branch to merge into; must not be main unless explicitly intended (blocked by policy)"`
	CommitMessage string `json:"commit_message,omitempty" jsonschema:"optional commit message for the merge"`
	CommitBody    string `json:"commit_body,omitempty" jsonschema:"optional commit body"`
}

type mergeBranchOutput struct {
	Merged       bool   `json:"merged"`
	SourceRef    string `json:"source_ref"`
	TargetBranch string `json:"target_branch"`
	Message      string `json:"message,omitempty"`
}

func (t *Toolkit) handleMergeBranch(ctx context.Context, _ *mcp.CallToolRequest, in mergeBranchInput) (*mcp.CallToolResult, mergeBranchOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, mergeBranchOutput{}, err
	}

	err = client.MergeBranch(ctx, bauplan.MergeArgs{
		SourceRef:     in.SourceRef,
		IntoBranch:    in.IntoBranch,
		CommitMessage: in.CommitMessage,
		CommitBody:    in.CommitBody,
	})
	if err != nil {
		return nil, mergeBranchOutput{}, fmt.Errorf("merging %s into %s: %w", in.SourceRef, in.IntoBranch, err)
	}
	return nil, mergeBranchOutput{
		Merged:       true,
		SourceRef:    in.SourceRef,
		TargetBranch: in.IntoBranch,
		Message:      fmt.Sprintf("merged %s into %s", in.SourceRef, in.IntoBranch),
	}, nil
}

type getCommitsInput struct {
	Ref            string `json:"ref" jsonschema:"branch name or commit hash to read history from"`
	MessageFilter  string `json:"message_filter,omitempty" jsonschema:"optional substring filter on commit messages"`
	AuthorUsername string `json:"author_username,omitempty" jsonschema:"optional filter by author username"`
	AuthorEmail    string `json:"author_email,omitempty" jsonschema:"optional filter by author email"`
	DateStart      string `json:"date_start,omitempty" jsonschema:"optional ISO date (YYYY-MM-DD) lower bound"`
	DateEnd        string `json:"date_end,omitempty" jsonschema:"optional ISO date (YYYY-MM-DD) upper bound"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of commits to return, defaults to 10"`
}

type getCommitsOutput struct {
	Commits    []bauplan.Commit `json:"commits"`
	TotalCount int              `json:"total_count"`
}

func (t *Toolkit) handleGetCommits(ctx context.Context, _ *mcp.CallToolRequest, in getCommitsInput) (*mcp.CallToolResult, getCommitsOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getCommitsOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	commits, err := client.GetCommits(ctx, in.Ref, bauplan.CommitFilter{
		MessageContains: in.MessageFilter,
		AuthorUsername:  in.AuthorUsername,
		AuthorEmail:     in.AuthorEmail,
		DateStart:       in.DateStart,
		DateEnd:         in.DateEnd,
		Limit:           limit,
	})
	if err != nil {
		return nil, getCommitsOutput{}, fmt.Errorf("listing commits of %s: %w", in.Ref, err)
	}
	return nil, getCommitsOutput{Commits: commits, TotalCount: len(commits)}, nil
}
