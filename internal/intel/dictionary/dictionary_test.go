package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeduplicatesKeepingFirstPosition(t *testing.T) {
	d := New([]string{"git", " ls ", "", "git", "cd"}, map[string]string{"gti": "git", "": "x", "y": ""})

	assert.Equal(t, []string{"git", "ls", "cd"}, d.Commands())
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.Contains("ls"))
	assert.False(t, d.Contains(" ls "))

	canonical, ok := d.Typo("gti")
	assert.True(t, ok)
	assert.Equal(t, "git", canonical)
	_, ok = d.Typo("y")
	assert.False(t, ok)
}

func TestCommandsReturnsCopy(t *testing.T) {
	d := Default()
	cmds := d.Commands()
	cmds[0] = "mutated"
	assert.Equal(t, "git", d.Commands()[0])
}

func TestDefaultTyposPointAtKnownCommands(t *testing.T) {
	d := Default()
	for wrong, right := range defaultTypos {
		assert.False(t, d.Contains(wrong), "misspelling %q must not be a known command", wrong)
		if right == "cd .." {
			continue
		}
		assert.True(t, d.Contains(right), "typo %q maps to unknown command %q", wrong, right)
	}
}

func TestLoadFileExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  - gh\n  - git\ntypos:\n  hg: gh\n  gti: gh\n"), 0o600))

	d, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, d.Contains("gh"))
	assert.Equal(t, Default().Len()+1, d.Len())
	cmds := d.Commands()
	assert.Equal(t, "gh", cmds[len(cmds)-1])

	canonical, ok := d.Typo("gti")
	require.True(t, ok)
	assert.Equal(t, "gh", canonical)
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	d, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), d.Len())
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands: [unterminated"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
