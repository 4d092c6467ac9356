package metadata_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpscan/mcpscan/internal/adapters/outbound/metadata"
	"github.com/mcpscan/mcpscan/internal/domain"
)

const (
	serverDir   = "../../../../testdata/metadata/server"
	invalidFile = "../../../../testdata/metadata/invalid/bad.capabilities.json"
)

func TestFileProvider_SingleFile(t *testing.T) {
	p := metadata.New()

	d, err := p.Discover(context.Background(), filepath.Join(serverDir, "admin.capabilities.json"))
	require.NoError(t, err)
	require.Len(t, d.Units, 1)

	u := d.Units[0]
	assert.Equal(t, "AdminServer.dll", u.Path)
	require.Len(t, u.Groups, 3)

	admin := u.Groups[0]
	assert.Equal(t, "AdminTools", admin.TypeName)
	assert.Equal(t, domain.GroupTool, admin.Kind)
	require.Len(t, admin.Members, 4)
	assert.Equal(t, "AdminTools", admin.Members[0].OwnerName)
	assert.Equal(t, "delete-all", admin.Members[0].DisplayName())

	assert.Empty(t, u.Groups[2].Members)
	assert.NotNil(t, u.Groups[2].Members)
}

func TestFileProvider_DirectoryIsSortedAndRecursive(t *testing.T) {
	d, err := metadata.New().Discover(context.Background(), serverDir)
	require.NoError(t, err)
	require.Len(t, d.Units, 2)
	assert.Equal(t, "AdminServer.dll", d.Units[0].Path)
	assert.Equal(t, "FileServer.dll", d.Units[1].Path)

	docs := d.Units[1].Groups[1]
	require.Len(t, docs.Members, 1)
	readme := docs.Members[0]
	assert.Equal(t, domain.KindResource, readme.Kind)
	assert.Equal(t, "Project README", readme.Title)
	assert.Equal(t, []string{"assistant", "user"}, readme.Audiences)
}

func TestFileProvider_CustomGlob(t *testing.T) {
	d, err := metadata.New(metadata.WithGlob("files.*.json")).Discover(context.Background(), serverDir)
	require.NoError(t, err)
	require.Len(t, d.Units, 1)
	assert.Equal(t, "FileServer.dll", d.Units[0].Path)
}

func TestFileProvider_EmptyDirectory(t *testing.T) {
	d, err := metadata.New().Discover(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, d.Units)
	assert.Equal(t, 0, d.CapabilityCount())
}

func TestFileProvider_SchemaViolation(t *testing.T) {
	_, err := metadata.New().Discover(context.Background(), invalidFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
	assert.Contains(t, err.Error(), "kind")
}

func TestFileProvider_MissingTarget(t *testing.T) {
	_, err := metadata.New().Discover(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading target")
}

func TestFileProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := metadata.New().Discover(ctx, serverDir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_NotJSON(t *testing.T) {
	_, err := metadata.Parse([]byte("{oops"), "inline")
	assert.Error(t, err)
}

func TestParse_DefaultsMemberKindAndPath(t *testing.T) {
	units, err := metadata.Parse([]byte(`{"assemblies":[{"classes":[
		{"type_name":"P","kind":"prompt_group","members":[{"member_name":"Greet","description":"  Say hello  "}]}
	]}]}`), "inline.json")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "inline.json", units[0].Path)

	c := units[0].Groups[0].Members[0]
	assert.Equal(t, domain.KindPrompt, c.Kind)
	assert.Equal(t, "Say hello", c.Description)
	assert.Equal(t, "P.Greet", c.Location())
}

func TestLoadFile_WrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.capabilities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"assemblies":"nope"}`), 0644))

	_, err := metadata.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
