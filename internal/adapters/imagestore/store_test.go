package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	require.Equal(t, "dragon.png", SafeName("Dragon.PNG"))
	require.Equal(t, "cafe_map.jpg", SafeName("Café map.jpg"))
	require.Equal(t, "passwd", SafeName("../../etc/passwd"))
	require.Equal(t, "image", SafeName("..."))
}

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	ref := domain.EntityRef{Type: domain.EntityCharacter, ID: 7}
	img, err := store.Save(context.Background(), ref, "Portrait.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(img.URL, "/images/character/character_7_"))
	require.True(t, strings.HasSuffix(img.URL, "_portrait.png"))
	require.Equal(t, "Portrait.png", img.Filename)

	local := filepath.Join(dir, "character", filepath.Base(img.URL))
	data, err := os.ReadFile(local)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Remove(context.Background(), img.URL))
	_, err = os.Stat(local)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, store.Remove(context.Background(), img.URL))
	require.NoError(t, store.Remove(context.Background(), "https://example.com/x.png"))
	require.NoError(t, store.Remove(context.Background(), "/images/../config.json"))
}

func TestSaveSameNameSameInstant(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)
	frozen := time.Date(1492, 7, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return frozen }

	ref := domain.EntityRef{Type: domain.EntityCharacter, ID: 3}
	first, err := store.Save(context.Background(), ref, "portrait.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), ref, "portrait.png", strings.NewReader("two"))
	require.NoError(t, err)
	require.NotEqual(t, first.URL, second.URL)

	for url, want := range map[string]string{first.URL: "one", second.URL: "two"} {
		data, err := os.ReadFile(filepath.Join(dir, "character", filepath.Base(url)))
		require.NoError(t, err)
		require.Equal(t, want, string(data))
	}
}
