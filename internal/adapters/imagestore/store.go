package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// URLPrefix is the path under which stored files are served.
const URLPrefix = "/images/"

// Store keeps uploaded images on local disk, one directory per entity type.
type Store struct {
	dir string
	now func() time.Time
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// SafeName folds a client file name to lowercase ASCII letters, digits, dots,
// dashes and underscores. Accented letters lose their marks.
func SafeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "image"
	}
	return out
}

// Save writes body under a name unique to this write, so parts sharing a
// client file name never collide.
func (s *Store) Save(ctx context.Context, ref domain.EntityRef, filename string, body io.Reader) (domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}
	now := s.now().UTC()
	name := fmt.Sprintf("%s_%d_%d_%s_%s", ref.Type, ref.ID, now.UnixMilli(), uuid.NewString()[:8], SafeName(filename))
	dir := filepath.Join(s.dir, string(ref.Type))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Image{}, fmt.Errorf("create image dir: %w", err)
	}

	target := filepath.Join(dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.Image{}, fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return domain.Image{}, fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return domain.Image{}, fmt.Errorf("close image file: %w", err)
	}

	return domain.Image{
		URL:        URLPrefix + path.Join(string(ref.Type), name),
		Filename:   filename,
		UploadedAt: now,
	}, nil
}

// Remove deletes the file behind url. Urls outside the store and files that
// are already gone are not errors.
func (s *Store) Remove(_ context.Context, url string) error {
	local, ok := s.localPath(url)
	if !ok {
		return nil
	}
	if err := os.Remove(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (s *Store) localPath(url string) (string, bool) {
	rel, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return "", false
	}
	clean := path.Clean("/" + rel)
	if clean == "/" || strings.Contains(rel, "..") {
		return "", false
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), true
}

var _ domain.ImageStore = (*Store)(nil)
