package guidance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan/bauplantest"
)

func newTestToolkit(t *testing.T, fake *bauplantest.Fake) (*Toolkit, *bauplantest.Dialer) {
	t.Helper()
	dialer := bauplantest.NewDialer(fake)
	tk, err := New("guidance", "", dialer.Dial)
	require.NoError(t, err)
	return tk, dialer
}

func TestHandleGetInstructions(t *testing.T) {
	tk, dialer := newTestToolkit(t, &bauplantest.Fake{})

	_, out, err := tk.handleGetInstructions(context.Background(), nil, getInstructionsInput{UseCase: "pipeline"})
	require.NoError(t, err)
	assert.Equal(t, "pipeline", out.UseCase)
	assert.NotEmpty(t, out.Instructions)
	assert.Equal(t, 0, dialer.DialCount(), "instruction lookup never dials the platform")
}

func TestHandleGetInstructionsWapAlias(t *testing.T) {
	tk, _ := newTestToolkit(t, &bauplantest.Fake{})

	_, ingest, err := tk.handleGetInstructions(context.Background(), nil, getInstructionsInput{UseCase: "ingest"})
	require.NoError(t, err)
	_, wap, err := tk.handleGetInstructions(context.Background(), nil, getInstructionsInput{UseCase: "wap"})
	require.NoError(t, err)
	assert.Equal(t, ingest.Instructions, wap.Instructions)
}

func TestHandleGetInstructionsInvalidKey(t *testing.T) {
	tk, _ := newTestToolkit(t, &bauplantest.Fake{})

	_, _, err := tk.handleGetInstructions(context.Background(), nil, getInstructionsInput{UseCase: "dance"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid use_case "dance"`)
	assert.Contains(t, err.Error(), "pipeline")
}

func TestHandleGetUserInfo(t *testing.T) {
	fake := &bauplantest.Fake{
		InfoFunc: func(context.Context) (*bauplan.UserInfo, error) {
			return &bauplan.UserInfo{Username: "alice", FullName: "Alice Smith"}, nil
		},
	}
	tk, dialer := newTestToolkit(t, fake)

	_, out, err := tk.handleGetUserInfo(context.Background(), nil, getUserInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, "Alice Smith", out.FullName)
	assert.Equal(t, 1, dialer.DialCount())
}
