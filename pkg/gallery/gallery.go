// Package gallery persists rendered images.
//
// Two backends implement [Store]: [DirStore] writes PNG files into a
// directory created on demand, and [MongoStore] keeps them as documents in a
// MongoDB collection. Names are derived from the render time via [TraceName]
// and [RiverName].
package gallery

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when an image does not exist.
var ErrNotFound = errors.New("image not found")

// Kind says which pipeline produced an image.
type Kind string

const (
	KindTrace Kind = "trace"
	KindRiver Kind = "river"
)

// File name prefixes per kind.
const (
	TracePrefix = "trazo_"
	RiverPrefix = "rio_"
)

// StampLayout is the timestamp format embedded in image names.
const StampLayout = "20060102_150405"

// TraceName is the file name of a text trace rendered at t.
func TraceName(t time.Time) string {
	return TracePrefix + t.Format(StampLayout) + ".png"
}

// RiverName is the file name of an emoji river rendered at t.
func RiverName(t time.Time) string {
	return RiverPrefix + t.Format(StampLayout) + ".png"
}

// KindOf infers the kind from a file name.
func KindOf(name string) Kind {
	if strings.HasPrefix(name, RiverPrefix) {
		return KindRiver
	}
	return KindTrace
}

// Entry describes an image to save.
type Entry struct {
	Name  string
	Kind  Kind
	Input string // text or emoji sequence the image was rendered from
}

// Image is a stored image's metadata.
type Image struct {
	Name      string    `json:"name" bson:"name"`
	Kind      Kind      `json:"kind" bson:"kind"`
	Input     string    `json:"input,omitempty" bson:"input,omitempty"`
	Size      int       `json:"size" bson:"size"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// Location is a file path or a backend URI.
	Location string `json:"location" bson:"-"`
}

// Store persists images.
type Store interface {
	// Save stores data and returns the stored metadata. If the name is
	// taken, a numeric suffix is added instead of overwriting.
	Save(ctx context.Context, e Entry, data []byte) (Image, error)

	// Load returns the bytes of a stored image or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns up to limit images, newest first. limit <= 0 lists all.
	List(ctx context.Context, limit int) ([]Image, error)

	Close() error
}

// withSuffix turns "a.png" into "a_2.png".
func withSuffix(name string, n int) string {
	base, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		base, ext = name[:i], name[i:]
	}
	return base + "_" + strconv.Itoa(n) + ext
}
