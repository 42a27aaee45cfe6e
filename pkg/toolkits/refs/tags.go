package refs

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

type getTagsInput struct {
	FilterByName string `json:"filter_by_name,omitempty" jsonschema:"optional substring filter on tag names"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of tags to return, defaults to 10"`
}

type getTagsOutput struct {
	Tags       []bauplan.Tag `json:"tags"`
	TotalCount int           `json:"total_count"`
}

func (t *Toolkit) handleGetTags(ctx context.Context, _ *mcp.CallToolRequest, in getTagsInput) (*mcp.CallToolResult, getTagsOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getTagsOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	tags, err := client.GetTags(ctx, in.FilterByName, limit)
	if err != nil {
		return nil, getTagsOutput{}, fmt.Errorf("listing tags: %w", err)
	}
	return nil, getTagsOutput{Tags: tags, TotalCount: len(tags)}, nil
}

type createTagInput struct {
	Tag     string `json:"tag" jsonschema:"name of the tag to create, e.g. v1.0-passed-qa"`
	FromRef string `json:"from_ref" jsonschema:"ref the tag points at"`
}

type createTagOutput struct {
	Created bool   `json:"created"`
	Tag     string `json:"tag"`
	FromRef string `json:"from_ref"`
	Message string `json:"message,omitempty"`
}

func (t *Toolkit) handleCreateTag(ctx context.Context, _ *mcp.CallToolRequest, in createTagInput) (*mcp.CallToolResult, createTagOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, createTagOutput{}, err
	}

	tag, err := client.CreateTag(ctx, in.Tag, in.FromRef)
	if err != nil {
		return nil, createTagOutput{}, fmt.Errorf("creating tag %s: %w", in.Tag, err)
	}
	return nil, createTagOutput{
		Created: true,
		Tag:     tag.Name,
		FromRef: in.FromRef,
		Message: fmt.Sprintf("tag %s created at %s", tag.Name, in.FromRef),
	}, nil
}

type hasTagInput struct {
	Tag string `json:"tag" jsonschema:"name of the tag"`
}

type hasTagOutput struct {
	Exists bool   `json:"exists"`
	Tag    string `json:"tag"`
}

func (t *Toolkit) handleHasTag(ctx context.Context, _ *mcp.CallToolRequest, in hasTagInput) (*mcp.CallToolResult, hasTagOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, hasTagOutput{}, err
	}

	exists, err := client.HasTag(ctx, in.Tag)
	if err != nil {
		return nil, hasTagOutput{}, fmt.Errorf("checking tag %s: %w", in.Tag, err)
	}
	return nil, hasTagOutput{Exists: exists, Tag: in.Tag}, nil
}

type deleteTagInput struct {
	Tag string `json:"tag" jsonschema:"name of the tag to delete"`
}

type deleteTagOutput struct {
	Deleted bool   `json:"deleted"`
	Tag     string `json:"tag"`
	Message string `json:"message,omitempty"`
}

func (t *Toolkit) handleDeleteTag(ctx context.Context, _ *mcp.CallToolRequest, in deleteTagInput) (*mcp.CallToolResult, deleteTagOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, deleteTagOutput{}, err
	}

	if err := client.DeleteTag(ctx, in.Tag); err != nil {
		return nil, deleteTagOutput{}, fmt.Errorf("deleting tag %s: %w", in.Tag, err)
	}
	return nil, deleteTagOutput{
		Deleted: true,
		Tag:     in.Tag,
		Message: fmt.Sprintf("tag %s deleted", in.Tag),
	}, nil
}
