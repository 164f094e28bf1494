package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := ls.Save(strings.NewReader("jpegbytes"), "posters", ".jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/posters/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	onDisk := filepath.Join(dir, "posters", filepath.Base(url))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	require.NoError(t, ls.Delete(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.Delete(url), "second delete is a no-op")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = ls.Save(strings.NewReader("x"), "../etc", ".txt")
	assert.Error(t, err)
	assert.Error(t, ls.Delete("/uploads/../secret"))
}
