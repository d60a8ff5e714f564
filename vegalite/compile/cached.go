package compile

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/ssv/vegalite"
)

// DefaultCacheSize bounds the number of memoized documents.
const DefaultCacheSize = 64

// Cached memoizes another compiler keyed by the spec's JSON. Callers receive
// independent copies, so appending signals never leaks into the cache.
type Cached struct {
	next  Compiler
	cache *lru.Cache[[sha256.Size]byte, Vega]
}

// NewCached wraps next. A non-positive size selects [DefaultCacheSize].
func NewCached(next Compiler, size int) (*Cached, error) {
	if next == nil {
		return nil, fmt.Errorf("compile: nil compiler")
	}

	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[[sha256.Size]byte, Vega](size)
	if err != nil {
		return nil, fmt.Errorf("compile: create cache: %w", err)
	}

	return &Cached{next: next, cache: cache}, nil
}

// Len returns the number of cached documents.
func (c *Cached) Len() int { return c.cache.Len() }

// Purge drops every cached document.
func (c *Cached) Purge() { c.cache.Purge() }

// Compile implements [Compiler].
func (c *Cached) Compile(ctx context.Context, spec *vegalite.Spec) (Vega, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("compile: encode spec: %w", err)
	}

	key := sha256.Sum256(b)
	if v, ok := c.cache.Get(key); ok {
		return v.Clone(), nil
	}

	v, err := c.next.Compile(ctx, spec)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, v.Clone())

	return v, nil
}
