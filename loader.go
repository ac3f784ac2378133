package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Future is the shared result of one cache load.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Wait blocks until the load finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether the load has finished.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cache loads each resource key at most once. Concurrent and later
// requests for a key share the first request's Future, failures included;
// nothing is retried. Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	futures map[string]*Future
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{futures: make(map[string]*Future)}
}

// Load returns the Future for key, starting fn in its own goroutine on the
// first request. fn receives the context of that first request.
func (c *Cache) Load(ctx context.Context, key string, fn func(context.Context) (any, error)) *Future {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.futures[key]; ok {
		return f
	}
	f := &Future{done: make(chan struct{})}
	c.futures[key] = f
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Forget drops key so the next Load starts over. Waiters on the old Future
// still receive its result.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.futures, key)
	c.mu.Unlock()
}

// Len returns the number of keys with a Future.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.futures)
}

func load[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.Load(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}).Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// AudioData is one encoded sound effect.
type AudioData struct {
	MediaType string // e.g. "audio/mpeg"
	Data      []byte
}

// Assets is everything loaded for one agent directory.
type Assets struct {
	Name    string
	Catalog *Catalog
	Sheet   []byte // encoded sprite sheet (map.png)
	Sounds  map[string]AudioData
	Jokes   []string
}

// Resources pairs the assets with a sound bank built from Sounds by the
// host.
func (a *Assets) Resources(sounds SoundBank) Resources {
	return Resources{Catalog: a.Catalog, Sounds: sounds, Jokes: a.Jokes}
}

// Resource file names inside an agent directory.
const (
	CatalogFile = "agent.json"
	SheetFile   = "map.png"
	SoundsFile  = "sounds-mp3.json"
	JokesFile   = "jokes.json"
)

// LoadResources loads the agent directory name from fsys through cache.
// agent.json and map.png are required; sounds-mp3.json is optional, and
// jokes.json (looked up in the directory, then at the root of fsys) falls
// back to the built-in jokes. The files load in parallel and the first
// failure is returned.
func LoadResources(ctx context.Context, cache *Cache, fsys fs.FS, name string) (*Assets, error) {
	if cache == nil {
		cache = NewCache()
	}
	a := &Assets{Name: name}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cat, err := load(gctx, cache, "data:"+name, func(context.Context) (*Catalog, error) {
			data, err := fs.ReadFile(fsys, path.Join(name, CatalogFile))
			if err != nil {
				return nil, fmt.Errorf("agent: load %s: %w", name, err)
			}
			return ParseCatalog(data)
		})
		a.Catalog = cat
		return err
	})
	g.Go(func() error {
		sheet, err := load(gctx, cache, "map:"+name, func(context.Context) ([]byte, error) {
			data, err := fs.ReadFile(fsys, path.Join(name, SheetFile))
			if err != nil {
				return nil, fmt.Errorf("agent: load %s sprite sheet: %w", name, err)
			}
			return data, nil
		})
		a.Sheet = sheet
		return err
	})
	g.Go(func() error {
		sounds, err := load(gctx, cache, "sounds:"+name, func(context.Context) (map[string]AudioData, error) {
			return readSounds(fsys, path.Join(name, SoundsFile))
		})
		a.Sounds = sounds
		return err
	})
	g.Go(func() error {
		jokes, err := load(gctx, cache, "jokes:"+name, func(context.Context) ([]string, error) {
			return readJokes(fsys, path.Join(name, JokesFile), JokesFile)
		})
		a.Jokes = jokes
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}

func readSounds(fsys fs.FS, file string) (map[string]AudioData, error) {
	data, err := fs.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]AudioData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agent: load sounds: %w", err)
	}
	var uris map[string]string
	if err := json.Unmarshal(data, &uris); err != nil {
		return nil, fmt.Errorf("agent: failed to parse sounds JSON: %w", err)
	}
	out := make(map[string]AudioData, len(uris))
	for id, uri := range uris {
		mediaType, payload, err := DecodeDataURI(uri)
		if err != nil {
			return nil, fmt.Errorf("agent: sound %q: %w", id, err)
		}
		out[id] = AudioData{MediaType: mediaType, Data: payload}
	}
	return out, nil
}

func readJokes(fsys fs.FS, files ...string) ([]string, error) {
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("agent: load jokes: %w", err)
		}
		var jokes []string
		if err := json.Unmarshal(data, &jokes); err != nil {
			return nil, fmt.Errorf("agent: failed to parse jokes JSON: %w", err)
		}
		return jokes, nil
	}
	return DefaultJokes(), nil
}

// DecodeDataURI splits a "data:" URI into its media type and payload.
// Base64 and percent-encoded payloads are both accepted. A missing media
// type defaults to text/plain.
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("agent: not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("agent: data URI has no payload")
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta = m
		isBase64 = true
	}
	mediaType, _, _ = strings.Cut(meta, ";")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("agent: decode data URI: %w", err)
		}
		return mediaType, data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("agent: decode data URI: %w", err)
	}
	return mediaType, []byte(s), nil
}
