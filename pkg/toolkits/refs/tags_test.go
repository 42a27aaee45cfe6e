package refs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan/bauplantest"
)

func TestHandleGetTags(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTagsFunc: func(_ context.Context, filter string, limit int) ([]bauplan.Tag, error) {
			assert.Equal(t, "v1", filter)
			assert.Equal(t, defaultListLimit, limit)
			return []bauplan.Tag{{Name: "v1.0-passed-qa", Hash: "abc"}}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleGetTags(context.Background(), nil, getTagsInput{FilterByName: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalCount)
	assert.Equal(t, "v1.0-passed-qa", out.Tags[0].Name)
}

func TestHandleCreateTag(t *testing.T) {
	fake := &bauplantest.Fake{
		CreateTagFunc: func(_ context.Context, tag, fromRef string) (*bauplan.Tag, error) {
			assert.Equal(t, "v1.0", tag)
			assert.Equal(t, "main", fromRef)
			return &bauplan.Tag{Name: tag, Hash: "abc"}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleCreateTag(context.Background(), nil, createTagInput{Tag: "v1.0", FromRef: "main"})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "v1.0", out.Tag)
}

func TestHandleHasTag(t *testing.T) {
	fake := &bauplantest.Fake{
		HasTagFunc: func(_ context.Context, tag string) (bool, error) {
			return tag == "v1.0", nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleHasTag(context.Background(), nil, hasTagInput{Tag: "v1.0"})
	require.NoError(t, err)
	assert.True(t, out.Exists)

	_, out, err = tk.handleHasTag(context.Background(), nil, hasTagInput{Tag: "v9.9"})
	require.NoError(t, err)
	assert.False(t, out.Exists)
}

func TestHandleDeleteTag(t *testing.T) {
	var deleted string
	fake := &bauplantest.Fake{
		DeleteTagFunc: func(_ context.Context, tag string) error {
			deleted = tag
			return nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleDeleteTag(context.Background(), nil, deleteTagInput{Tag: "v1.0"})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, "v1.0", deleted)
}
