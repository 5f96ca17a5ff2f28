package script

import (
	"bytes"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

type cacheKey [blake2b.Size256]byte

// compileCache keeps successfully compiled artifacts keyed by transformed
// source and declarations. Failed compilations are never cached.
type compileCache struct {
	entries *lru.Cache[cacheKey, Artifact]
	flight  singleflight.Group
}

// newCompileCache returns a cache holding up to size artifacts, or a
// pass-through cache when size is not positive.
func newCompileCache(size int) *compileCache {
	c := &compileCache{}
	if size > 0 {
		entries, err := lru.New[cacheKey, Artifact](size)
		if err == nil {
			c.entries = entries
		}
	}
	return c
}

func keyOf(src string, decls []Declaration) cacheKey {
	sorted := slices.Clone(decls)
	slices.SortFunc(sorted, func(a, b Declaration) int {
		return strings.Compare(a.Name, b.Name)
	})

	var buf bytes.Buffer
	buf.WriteString(src)
	for _, d := range sorted {
		buf.WriteByte(0)
		buf.WriteString(d.Name)
		buf.WriteByte(':')
		if d.Type != nil {
			buf.WriteString(d.Type.PkgPath())
			buf.WriteByte('.')
			buf.WriteString(d.Type.String())
		}
	}
	return blake2b.Sum256(buf.Bytes())
}

// compile returns the cached artifact for key or runs fn. Concurrent misses
// for the same key share a single fn call. The hit result reports whether
// the artifact came from the cache.
func (c *compileCache) compile(key cacheKey, fn func() (CompileResult, error)) (result CompileResult, hit bool, err error) {
	if c.entries == nil {
		result, err = fn()
		return result, false, err
	}
	if artifact, ok := c.entries.Get(key); ok {
		return CompileResult{Artifact: artifact}, true, nil
	}

	v, err, _ := c.flight.Do(string(key[:]), func() (any, error) {
		r, err := fn()
		if err == nil && r.OK() {
			c.entries.Add(key, r.Artifact)
		}
		return r, err
	})
	result, _ = v.(CompileResult)
	return result, false, err
}

// Len returns the number of cached artifacts.
func (c *compileCache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached artifact.
func (c *compileCache) Purge() {
	if c.entries != nil {
		c.entries.Purge()
	}
}
