package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "merged.xml")
	require.NoError(t, os.WriteFile(existing, []byte("<catalog/>"), 0o600))
	subdir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	fileLink := filepath.Join(dir, "merged-link.xml")
	require.NoError(t, os.Symlink(existing, fileLink))
	dirLink := filepath.Join(dir, "out-link")
	require.NoError(t, os.Symlink(subdir, dirLink))

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{"existing file", existing, existing, ""},
		{"new file", filepath.Join(subdir, "new.xml"), filepath.Join(subdir, "new.xml"), ""},
		{"dot segments cleaned", dir + "/out/../merged.xml", existing, ""},
		{"directory", subdir, subdir, ""},
		{"symlinked file", fileLink, "", "symlink"},
		{"symlinked directory", dirLink, "", "symlink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeOutputPath(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeOutputPath_Relative(t *testing.T) {
	got, err := SanitizeOutputPath("output.xml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	assert.Equal(t, "output.xml", filepath.Base(got))
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	require.NoError(t, os.WriteFile(a, []byte("<a/>"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("<a/>"), 0o600))

	link := filepath.Join(dir, "link.xml")
	require.NoError(t, os.Symlink(a, link))

	assert.True(t, SameFile(a, a))
	assert.True(t, SameFile(a, dir+"/./a.xml"))
	assert.True(t, SameFile(a, link))
	assert.False(t, SameFile(a, b))
	assert.False(t, SameFile(a, filepath.Join(dir, "missing.xml")))
	assert.True(t, SameFile(filepath.Join(dir, "new.xml"), dir+"/sub/../new.xml"))
}
