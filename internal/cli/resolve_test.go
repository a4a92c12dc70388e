package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExternalPath(t *testing.T) {
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--path", "Ve,Su",
		"--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)

	var info ResolutionInfo
	decodeData(t, resp.Data, &info)
	assert.Equal(t, "vimshottari", info.System)
	assert.Equal(t, []string{"Ve", "Su"}, info.Path)
	assert.Equal(t, "external", info.Source)

	assert.Equal(t, "Su", info.Period.Body)
	assert.Equal(t, "2003-05-02T12:00:00Z", info.Period.Start)
	assert.Equal(t, "2004-05-01T18:00:00Z", info.Period.End)
	assert.Equal(t, "1", info.Period.Years)

	require.Len(t, info.Ancestry, 2)
	assert.Equal(t, 1, info.Ancestry[0].Level)
	assert.Equal(t, "external", info.Ancestry[0].Source)
	assert.Equal(t, "Ve", info.Ancestry[0].Body)
	assert.Equal(t, "external", info.Ancestry[1].Source)
}

func TestResolveComputedTail(t *testing.T) {
	// The tree supplies two levels; the third is synthesized locally.
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--path", "Ve,Su,Su",
		"--format", "json")
	require.NoError(t, err)

	var info ResolutionInfo
	decodeData(t, decodeResponse(t, out).Data, &info)
	assert.Equal(t, "computed", info.Source)
	assert.Equal(t, "Su", info.Period.Body)
	assert.Equal(t, "1/20", info.Period.Years)
	assert.Equal(t, "2003-05-02T12:00:00Z", info.Period.Start)

	require.Len(t, info.Ancestry, 3)
	assert.Equal(t, "external", info.Ancestry[0].Source)
	assert.Equal(t, "external", info.Ancestry[1].Source)
	assert.Equal(t, "computed", info.Ancestry[2].Source)
}

func TestResolveWithChildren(t *testing.T) {
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--path", "Ve,Su",
		"--children",
		"--format", "json")
	require.NoError(t, err)

	var info ResolutionInfo
	decodeData(t, decodeResponse(t, out).Data, &info)
	assert.Equal(t, "computed", info.ChildrenSource)
	require.Len(t, info.Children, 9)
	assert.Equal(t, "Su", info.Children[0].Body)
	assert.Equal(t, "2004-05-01T18:00:00Z", info.Children[8].End)
}

func TestResolvePathNotFound(t *testing.T) {
	// The supplied tree lists only Ve and Su at the second level.
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--path", "Ve,Mo",
		"--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "PATH_NOT_FOUND", decodeResponse(t, out).Error.Code)
}

func TestResolveDepthExceeded(t *testing.T) {
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--path", "Ve,Su,Su,Su,Su,Su",
		"--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "INVALID_DEPTH", decodeResponse(t, out).Error.Code)
}

func TestResolveSystemOverride(t *testing.T) {
	out, err := execute(t, "resolve", "testdata/tree.yaml",
		"--system", "vimshottari",
		"--path", "Ve",
		"--format", "json")
	require.NoError(t, err)

	var info ResolutionInfo
	decodeData(t, decodeResponse(t, out).Data, &info)
	assert.Equal(t, "vimshottari", info.System)
	assert.Equal(t, "Ve", info.Period.Body)
	assert.Equal(t, "20", info.Period.Years)
}

func TestResolveBadPathFlag(t *testing.T) {
	_, err := execute(t, "resolve", "testdata/tree.yaml", "--path", "Ve,,Su")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveMissingTree(t *testing.T) {
	_, err := execute(t, "resolve", "testdata/nope.yaml", "--path", "Ve")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveText(t *testing.T) {
	out, err := execute(t, "resolve", "testdata/tree.yaml", "--path", "Ve,Su")
	require.NoError(t, err)
	assert.Contains(t, out, "vimshottari Ve,Su -> external")
	assert.Contains(t, out, "L2 [external] Su")
}
