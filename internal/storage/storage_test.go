package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	require.NoError(t, s.Init())
	defer s.Close()

	_, err := s.Get("counter")
	assert.ErrorIs(t, err, ErrContentNotFound)

	content := []byte("<template><p/></template>")
	require.NoError(t, s.Put("counter", content))
	require.NoError(t, s.Put("alpha", nil))

	got, err := s.Get("counter")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	got[0] = 'X'
	again, _ := s.Get("counter")
	assert.Equal(t, content, again, "Get must return a copy")

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "counter"}, names)

	require.NoError(t, s.Delete("alpha"))
	assert.ErrorIs(t, s.Delete("alpha"), ErrContentNotFound)

	assert.ErrorIs(t, s.Put("../evil", content), ErrInvalidName)
	assert.ErrorIs(t, s.Put("", content), ErrInvalidName)
}

func TestDiskStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "components")
	s := NewDiskStorage(dir, "vue", 8)
	require.NoError(t, s.Init())
	defer s.Close()

	require.NoError(t, s.Put("counter", []byte("<p>one</p>")))
	require.FileExists(t, filepath.Join(dir, "counter.vue"))

	got, err := s.Get("counter")
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(got))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"counter"}, names)

	require.NoError(t, s.Delete("counter"))
	_, err = s.Get("counter")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.ErrorIs(t, s.Delete("counter"), ErrContentNotFound)

	_, err = s.Get("../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDiskStorageWarmsCacheAndReloadsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.vue")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	s := NewDiskStorage(dir, ".vue", 4)
	require.NoError(t, s.Init())
	assert.Contains(t, s.cache, "profile")
	assert.NotContains(t, s.cache, "notes")

	got, err := s.Get("profile")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	got, err = s.Get("profile")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, os.Remove(path))
	_, err = s.Get("profile")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.NotContains(t, s.cache, "profile")
}

func TestDiskStorageEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(dir, ".vue", 2)
	require.NoError(t, s.Init())

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(name, []byte(name)))
	}

	_, err := s.Get("a")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.Get("b")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.Get("c")
	require.NoError(t, err)

	assert.Len(t, s.cache, 2)
	assert.NotContains(t, s.cache, "a")
}

func TestDiskStorageInitFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := NewDiskStorage(file, ".vue", 1).Init()
	assert.ErrorIs(t, err, ErrStorageInit)
}
