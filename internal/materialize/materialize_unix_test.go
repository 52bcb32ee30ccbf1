//go:build unix

package materialize

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"cargo-update-target-dylibs/internal/interpret"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializer_PreservesPermissionBits(t *testing.T) {
	old := syscall.Umask(0077)
	defer syscall.Umask(old)

	tmp := t.TempDir()
	libDir := filepath.Join(tmp, "out", "lib")
	srcPath := filepath.Join(libDir, "libfoo.so")
	writeFile(t, srcPath, "executable payload")
	require.NoError(t, os.Chmod(srcPath, 0755))
	target := makeTargetDir(t, tmp)

	m := newTestMaterializer(target)
	_, err := m.Run([]interpret.Library{{Name: "foo", SearchDirs: []string{libDir}}})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(target, "libfoo.so"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}
