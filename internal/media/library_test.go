package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

func seedImages(t *testing.T, root string, mood models.ChatMood, names ...string) {
	t.Helper()
	dir := filepath.Join(root, string(mood))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
	}
}

func TestPickCyclesWithoutRepeats(t *testing.T) {
	root := t.TempDir()
	seedImages(t, root, models.MoodNormal, "a.jpg", "b.jpg", "c.jpg")
	lib := NewLibrary(root)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := lib.Pick(models.MoodNormal)
		require.NoError(t, err)
		require.False(t, seen[path], "repeated %s before pool was exhausted", path)
		seen[path] = true
	}
	require.Len(t, seen, 3)

	// Pool exhausted: the cycle resets and picks keep coming.
	path, err := lib.Pick(models.MoodNormal)
	require.NoError(t, err)
	require.True(t, seen[path])
}

func TestPickIsolatesMoods(t *testing.T) {
	root := t.TempDir()
	seedImages(t, root, models.MoodNormal, "sweet.jpg")
	seedImages(t, root, models.MoodErotic, "spicy.jpg")
	lib := NewLibrary(root)

	path, err := lib.Pick(models.MoodErotic)
	require.NoError(t, err)
	require.Contains(t, path, string(models.MoodErotic))

	path, err = lib.Pick(models.MoodNormal)
	require.NoError(t, err)
	require.Contains(t, path, string(models.MoodNormal))
}

func TestPickEmptyDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, string(models.MoodNormal)), 0o755))
	lib := NewLibrary(root)

	_, err := lib.Pick(models.MoodNormal)
	require.ErrorIs(t, err, ErrNoImages)

	// Missing mood directory surfaces the filesystem error.
	_, err = lib.Pick(models.MoodErotic)
	require.Error(t, err)
}
