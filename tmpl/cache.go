package tmpl

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/gentmpl/log"
)

// Cache holds parsed templates keyed by the hash of their source and parse
// options. Each distinct source is parsed at most once, even when requested
// concurrently; parse errors are cached as well.
//
// The zero value is ready to use.
type Cache struct {
	entries sync.Map // key -> *entry
	size    atomic.Int64
	logger  log.Logger
}

type entry struct {
	once sync.Once
	src  string
	tmpl *Template
	err  error
}

// key pairs the source hash with the options hash.
type key struct {
	src, opts uint64
}

func (k key) String() string {
	return strconv.FormatUint(k.src, 36) + "." + strconv.FormatUint(k.opts, 36)
}

// NewCache returns an empty cache that traces lookups to logger.
func NewCache(logger log.Logger) *Cache {
	return &Cache{logger: logger}
}

// hashOptions identifies the options that affect the parsed tree.
// Loggers do not.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(o.name)
	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

func cacheKey(src string, o options) key {
	return key{src: xxh3.HashString(src), opts: hashOptions(o)}
}

// Parse returns the template for src, parsing it on first use.
//
// An entry whose source differs from src (a hash collision) is never
// returned; src is parsed without being cached instead.
func (c *Cache) Parse(ctx context.Context, src string, opts ...Option) (*Template, error) {
	k := cacheKey(src, makeOptions(opts...))

	v, loaded := c.entries.LoadOrStore(k, &entry{src: src})
	e := v.(*entry)

	if !loaded {
		c.size.Add(1)
	}

	if e.src != src {
		c.logger.WarnContext(ctx, "template cache collision",
			slog.String("key", k.String()))

		return Parse(src, opts...)
	}

	c.logger.TraceContext(ctx, "template cache lookup",
		slog.String("key", k.String()),
		slog.Bool("hit", loaded))

	e.once.Do(func() {
		e.tmpl, e.err = Parse(src, opts...)
	})

	return e.tmpl, e.err
}

// ParseReader reads a template from r and parses it through the cache.
// Reads are performed ahead asynchronously.
func (c *Cache) ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Template, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		return nil, err
	}

	return c.Parse(ctx, string(src), opts...)
}

// Len returns the number of distinct cached sources, including failures.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		if _, ok := c.entries.LoadAndDelete(k); ok {
			c.size.Add(-1)
		}

		return true
	})
}

var defaultCache Cache

// ParseCached parses src through a process-wide [Cache].
func ParseCached(ctx context.Context, src string, opts ...Option) (*Template, error) {
	return defaultCache.Parse(ctx, src, opts...)
}

// ClearCache empties the process-wide cache used by [ParseCached].
func ClearCache() { defaultCache.Clear() }
