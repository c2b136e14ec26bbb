package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tester", ExpandPath("~"))
	assert.Equal(t, filepath.Join("/home/tester", ".shai", "history.db"), ExpandPath("~/.shai/history.db"))
	assert.Equal(t, "/var/log", ExpandPath("/var/log/"))
	assert.Equal(t, filepath.Join("/home/tester", ".shai"), ShaiDir())
}
