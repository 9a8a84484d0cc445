package flags

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomeDir_PrefersHOMEEnvVar(t *testing.T) {
	t.Setenv("HOME", "/home/someuser")
	require.Equal(t, "/home/someuser", HomeDir())
}

func TestExpandPath_TildeSlash_ExpandsToHome(t *testing.T) {
	t.Setenv("HOME", "/home/someuser")
	got := expandPath("~/tmp")
	require.Equal(t, filepath.Clean(filepath.Join("/home/someuser", "tmp")), got)
}

func TestExpandPath_OtherUserTilde_NotExpanded(t *testing.T) {
	got := expandPath("~thisOtherUser/b/")
	require.Equal(t, filepath.Clean("~thisOtherUser/b/"), got)
}

func TestExpandPath_EnvVarReference_Expanded(t *testing.T) {
	t.Setenv("DDDXXX", "/tmp")
	got := expandPath("$DDDXXX/a/b")
	require.Equal(t, filepath.Clean("/tmp/a/b"), got)
}

func TestExpandPath_TrailingSlash_Cleaned(t *testing.T) {
	require.Equal(t, filepath.Clean("/a/b/"), expandPath("/a/b/"))
}

func TestDirectoryFlag_SetExpandsPath(t *testing.T) {
	t.Setenv("HOME", "/home/someuser")
	f := &DirectoryFlag{Name: "datadir"}
	require.NoError(t, f.Value.Set("~/data"))
	require.Equal(t, filepath.Clean(filepath.Join("/home/someuser", "data")), f.Value.String())
}
