package catalog

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

const defaultNamespaceLimit = 50

type getNamespacesInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash to list namespaces at"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional substring filter on namespace names"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of namespaces to return, defaults to 50"`
}

type getNamespacesOutput struct {
	Namespaces []bauplan.Namespace `json:"namespaces"`
	TotalCount int                 `json:"total_count"`
}

func (t *Toolkit) handleGetNamespaces(ctx context.Context, _ *mcp.CallToolRequest, in getNamespacesInput) (*mcp.CallToolResult, getNamespacesOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getNamespacesOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultNamespaceLimit
	}

	namespaces, err := client.GetNamespaces(ctx, in.Ref, in.Namespace, limit)
	if err != nil {
		return nil, getNamespacesOutput{}, fmt.Errorf("listing namespaces: %w", err)
	}
	return nil, getNamespacesOutput{Namespaces: namespaces, TotalCount: len(namespaces)}, nil
}

type createNamespaceInput struct {
	Namespace string `json:"namespace" jsonschema:"name of the namespace to create"`
	Branch    string `json:"branch" jsonschema:"branch to create the namespace on; must not be main"`
}

type createNamespaceOutput struct {
	Created   bool   `json:"created"`
	Namespace string `json:"namespace"`
	Message   string `json:"message,omitempty"`
}

func (t *Toolkit) handleCreateNamespace(ctx context.Context, _ *mcp.CallToolRequest, in createNamespaceInput) (*mcp.CallToolResult, createNamespaceOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, createNamespaceOutput{}, err
	}

	ns, err := client.CreateNamespace(ctx, in.Namespace, in.Branch)
	if err != nil {
		return nil, createNamespaceOutput{}, fmt.Errorf("creating namespace %s: %w", in.Namespace, err)
	}
	return nil, createNamespaceOutput{
		Created:   true,
		Namespace: ns.Name,
		Message:   fmt.Sprintf("namespace %s created on branch %s", ns.Name, in.Branch),
	}, nil
}

type hasNamespaceInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash to check at"`
	Namespace string `json:"namespace" jsonschema:"name of the namespace"`
}

type hasNamespaceOutput struct {
	Exists    bool   `json:"exists"`
	Namespace string `json:"namespace"`
}

func (t *Toolkit) handleHasNamespace(ctx context.Context, _ *mcp.CallToolRequest, in hasNamespaceInput) (*mcp.CallToolResult, hasNamespaceOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, hasNamespaceOutput{}, err
	}

	exists, err := client.HasNamespace(ctx, in.Ref, in.Namespace)
	if err != nil {
		return nil, hasNamespaceOutput{}, fmt.Errorf("checking namespace %s: %w", in.Namespace, err)
	}
	return nil, hasNamespaceOutput{Exists: exists, Namespace: in.Namespace}, nil
}

type deleteNamespaceInput struct {
	Namespace string `json:"namespace" jsonschema:"name of the namespace to delete"`
	Branch    string `json:"branch" jsonschema:"branch to delete the namespace from; must not be main"`
}

type deleteNamespaceOutput struct {
	Deleted   bool   `json:"deleted"`
	Namespace string `json:"namespace"`
	Message   string `json:"message,omitempty"`
}

func (t *Toolkit) handleDeleteNamespace(ctx context.Context, _ *mcp.CallToolRequest, in deleteNamespaceInput) (*mcp.CallToolResult, deleteNamespaceOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, deleteNamespaceOutput{}, err
	}

	if err := client.DeleteNamespace(ctx, in.Namespace, in.Branch); err != nil {
		return nil, deleteNamespaceOutput{}, fmt.Errorf("deleting namespace %s: %w", in.Namespace, err)
	}
	return nil, deleteNamespaceOutput{
		Deleted:   true,
		Namespace: in.Namespace,
		Message:   fmt.Sprintf("namespace %s deleted from branch %s", in.Namespace, in.Branch),
	}, nil
}
