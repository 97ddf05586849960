package fsys

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_WriteCreatesParents(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/out")

	require.NoError(t, s.WriteFile("apps/web/src/app/page.tsx", "export default 1\n"))

	ok, err := s.Exists("apps/web/src/app/page.tsx")
	require.NoError(t, err)
	assert.True(t, ok)

	content, err := s.ReadFile("apps/web/src/app/page.tsx")
	require.NoError(t, err)
	assert.Equal(t, "export default 1\n", content)

	isDir, err := afero.DirExists(fs, filepath.FromSlash("/out/apps/web/src"))
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestService_EnsureDir(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/out")

	require.NoError(t, s.EnsureDir("packages/db"))
	ok, err := s.Exists("packages/db")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_RejectsEscapes(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/out")

	for _, rel := range []string{"../etc/passwd", "/etc/passwd", "a/../../b"} {
		_, err := s.Abs(rel)
		assert.Error(t, err, rel)
		assert.Error(t, s.WriteFile(rel, "x"), rel)
	}

	p, err := s.Abs("a/./b/../c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "a", "c.txt"), p)

	root, err := s.Abs("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/out"), root)
}

func TestService_OS(t *testing.T) {
	dir := t.TempDir()
	s := NewOS(dir)

	require.NoError(t, s.WriteFile(".gitignore", "node_modules\n"))
	content, err := s.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, "node_modules\n", content)
	assert.Equal(t, dir, s.Root())
}

func TestService_Scoped(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/out")
	require.NoError(t, s.WriteFile("prisma/schema.prisma", "model X {}\n"))

	ok, err := afero.Exists(s.Scoped(), "prisma/schema.prisma")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Scoped().Open("../etc/passwd")
	assert.Error(t, err)
}
