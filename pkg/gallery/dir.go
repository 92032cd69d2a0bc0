package gallery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	terrors "github.com/matzehuels/trazo/pkg/errors"
)

// DefaultDir is where images land when no directory is configured.
const DefaultDir = "imagenes_generadas"

// maxSuffix bounds the search for a free name.
const maxSuffix = 1000

// DirStore writes images as PNG files under a directory. The directory is
// created on the first save, not on construction.
type DirStore struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewDirStore returns a store rooted at dir, or DefaultDir when empty.
func NewDirStore(dir string) *DirStore {
	if dir == "" {
		dir = DefaultDir
	}
	return &DirStore{dir: dir, now: time.Now}
}

// Dir returns the root directory.
func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Save(ctx context.Context, e Entry, data []byte) (Image, error) {
	if err := terrors.ValidateFilename(e.Name); err != nil {
		return Image{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Image{}, fmt.Errorf("create gallery dir: %w", err)
	}

	name := e.Name
	for n := 2; ; n++ {
		path := filepath.Join(s.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			if n > maxSuffix {
				return Image{}, fmt.Errorf("no free name for %s", e.Name)
			}
			name = withSuffix(e.Name, n)
			continue
		}
		if err != nil {
			return Image{}, fmt.Errorf("create image: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return Image{}, fmt.Errorf("write image: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return Image{}, fmt.Errorf("close image: %w", err)
		}

		kind := e.Kind
		if kind == "" {
			kind = KindOf(name)
		}
		return Image{
			Name:      name,
			Kind:      kind,
			Input:     e.Input,
			Size:      len(data),
			CreatedAt: s.now(),
			Location:  path,
		}, nil
	}
}

func (s *DirStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := terrors.ValidateFilename(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *DirStore) List(ctx context.Context, limit int) ([]Image, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gallery dir: %w", err)
	}

	var images []Image
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, Image{
			Name:      entry.Name(),
			Kind:      KindOf(entry.Name()),
			Size:      int(info.Size()),
			CreatedAt: info.ModTime(),
			Location:  filepath.Join(s.dir, entry.Name()),
		})
	}

	// Names embed the timestamp, so name order is time order.
	sort.Slice(images, func(i, j int) bool { return images[i].Name > images[j].Name })
	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	return images, nil
}

func (s *DirStore) Close() error { return nil }

var _ Store = (*DirStore)(nil)
