package stylesheet

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentic-research/chartbind/internal/format"
	"github.com/minio/highwayhash"
	"github.com/viant/afs"
)

var digestKey = []byte("chartbind-stylesheet-digest-key!")

// Digest hashes stylesheet content for the version token.
func Digest(data []byte) uint64 {
	return highwayhash.Sum64(data, digestKey)
}

// Version is the freshness token handed out with a dictionary.
type Version struct {
	ModTime time.Time
	Digest  uint64
}

func (v Version) IsZero() bool { return v.ModTime.IsZero() && v.Digest == 0 }

// Source is where stylesheet bytes come from.
type Source interface {
	// Stat returns the last-modified time.
	Stat(ctx context.Context) (time.Time, error)
	Read(ctx context.Context) ([]byte, error)
}

// URLSource reads a stylesheet through afs (file://, mem://, s3:// ...).
type URLSource struct {
	fs  afs.Service
	url string
}

func NewURLSource(fs afs.Service, url string) *URLSource {
	return &URLSource{fs: fs, url: url}
}

// Stat implements Source.
func (s *URLSource) Stat(ctx context.Context) (time.Time, error) {
	obj, err := s.fs.Object(ctx, s.url)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat stylesheet %s: %w", s.url, err)
	}
	return obj.ModTime(), nil
}

// Read implements Source.
func (s *URLSource) Read(ctx context.Context) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet %s: %w", s.url, err)
	}
	return data, nil
}

// Store is the process-wide stylesheet cache. Every Get re-checks the
// source's last-modified time; content is only reparsed when its digest
// changed.
type Store struct {
	src Source

	mu      sync.Mutex
	dict    *Dictionary
	version Version
	loads   int
}

func NewStore(src Source) *Store {
	return &Store{src: src}
}

// Get returns the current dictionary and its version. When current still
// matches the source, the cached dictionary comes back unchanged; callers
// compare the returned version to current to learn whether it moved.
func (s *Store) Get(ctx context.Context, current Version) (*Dictionary, Version, error) {
	mod, err := s.src.Stat(ctx)
	if err != nil {
		return nil, current, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dict != nil && mod.Equal(s.version.ModTime) {
		return s.dict, s.version, nil
	}

	data, err := s.src.Read(ctx)
	if err != nil {
		return nil, current, err
	}
	digest := Digest(data)
	if s.dict != nil && digest == s.version.Digest {
		// touched, not changed
		s.version.ModTime = mod
		return s.dict, s.version, nil
	}

	dict, err := Parse(data)
	if err != nil {
		return nil, current, err
	}
	s.dict = dict
	s.version = Version{ModTime: mod, Digest: digest}
	s.loads++
	return s.dict, s.version, nil
}

// Loads reports how many times content was parsed.
func (s *Store) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Styles adapts a Store to format.StyleSource. A failing store reads as an
// undefined stylesheet tier.
type Styles struct {
	store   *Store
	version atomic.Pointer[Version]
}

func NewStyles(store *Store) *Styles {
	return &Styles{store: store}
}

// Lookup implements format.StyleSource.
func (s *Styles) Lookup(sel format.Selector) (format.TextFormat, bool) {
	if s == nil || s.store == nil {
		return format.TextFormat{}, false
	}
	var current Version
	if v := s.version.Load(); v != nil {
		current = *v
	}
	dict, v, err := s.store.Get(context.Background(), current)
	if err != nil {
		log.Printf("stylesheet: lookup %s#%s: %v", sel.Type, sel.ID, err)
		return format.TextFormat{}, false
	}
	if v != current {
		s.version.Store(&v)
	}
	return dict.Lookup(sel)
}

// Version returns the version seen by the last successful lookup.
func (s *Styles) Version() Version {
	if v := s.version.Load(); v != nil {
		return *v
	}
	return Version{}
}
