// ABOUTME: Tests for tool profile resolution.
// ABOUTME: Covers profiles, individual names, and unknown-name rejection.

package mcp

import (
	"testing"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToolsAll(t *testing.T) {
	for _, input := range []string{"", "  ", "all", "read,all", " , "} {
		got, err := ResolveTools(input)
		require.NoError(t, err, input)
		assert.Nil(t, got, input)
	}
}

func TestResolveToolsProfiles(t *testing.T) {
	got, err := ResolveTools("read")
	require.NoError(t, err)
	assert.Equal(t, ProfileRead, got)

	got, err = ResolveTools("WRITE, get_memo")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"create_memo": true,
		"update_memo": true,
		"delete_memo": true,
		"get_memo":    true,
	}, got)
}

func TestResolveToolsUnknown(t *testing.T) {
	_, err := ResolveTools("read,mem_save,bogus")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "bogus, mem_save")

	_, err = ResolveTools("all,bogus")
	require.Error(t, err)
}

func TestProfilesCoverEveryTool(t *testing.T) {
	for _, op := range operations {
		assert.True(t, ProfileRead[op.Name] != ProfileWrite[op.Name], op.Name)
	}
}

func TestServerRegistersOnlyAllowedTools(t *testing.T) {
	s := NewServer(nil, WithTools(map[string]bool{"get_tags": true, "create_memo": true}))
	assert.Equal(t, []string{"create_memo", "get_tags"}, s.ToolNames())
	assert.Len(t, NewServer(nil).ToolNames(), 7)
}
