package media

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

// ErrNoImages is returned when a mood directory exists but holds no files.
var ErrNoImages = errors.New("media: no images available")

// Library serves random images from per-mood directories without repeating
// one until the whole pool has been cycled through.
type Library struct {
	root string

	mu   sync.Mutex
	sent map[models.ChatMood]map[string]struct{}
}

func NewLibrary(root string) *Library {
	return &Library{
		root: root,
		sent: map[models.ChatMood]map[string]struct{}{
			models.MoodNormal: {},
			models.MoodErotic: {},
		},
	}
}

// Pick returns the path of a random image for the mood, avoiding files
// already served this cycle. When every file has been served the cycle
// resets and the full pool becomes eligible again.
func (l *Library) Pick(mood models.ChatMood) (string, error) {
	dir := filepath.Join(l.root, string(mood))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read image dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", ErrNoImages
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seen := l.sent[mood]
	if seen == nil {
		seen = map[string]struct{}{}
		l.sent[mood] = seen
	}

	var available []string
	for _, f := range files {
		if _, ok := seen[f]; !ok {
			available = append(available, f)
		}
	}
	if len(available) == 0 {
		l.sent[mood] = map[string]struct{}{}
		available = files
	}

	chosen := available[rand.Intn(len(available))]
	l.sent[mood][chosen] = struct{}{}
	return filepath.Join(dir, chosen), nil
}
