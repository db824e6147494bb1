package symbolizer

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/debuginfo"
)

type cacheKey struct {
	projectRoot string
	address     uint64
}

// objectStamp identifies one build of a candidate code object.
type objectStamp struct {
	object  codeobject.CodeObject
	modTime time.Time
	size    int64
}

func sameBuilds(a, b []objectStamp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].object != b[i].object || a[i].size != b[i].size || !a[i].modTime.Equal(b[i].modTime) {
			return false
		}
	}
	return true
}

type cacheEntry struct {
	symbol  debuginfo.Symbol
	stamps  []objectStamp
	expires time.Time
}

// resultCache keeps resolved symbols in memory for a limited time. An entry
// is only served while the candidate code objects are the ones it was
// resolved against. Only results carrying a source location are stored.
type resultCache struct {
	entries *lru.Cache[cacheKey, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

func newResultCache(size int, ttl time.Duration) (*resultCache, error) {
	if size == 0 {
		return nil, nil
	}
	entries, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

func (c *resultCache) get(key cacheKey, stamps []objectStamp) (*debuginfo.Symbol, bool) {
	if c == nil || len(stamps) == 0 {
		return nil, false
	}
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if (!e.expires.IsZero() && c.now().After(e.expires)) || !sameBuilds(e.stamps, stamps) {
		c.entries.Remove(key)
		return nil, false
	}
	return cloneSymbol(&e.symbol), true
}

func (c *resultCache) add(key cacheKey, stamps []objectStamp, sym *debuginfo.Symbol) bool {
	if c == nil || len(stamps) == 0 || !sym.HasLocation() {
		return false
	}
	e := cacheEntry{symbol: *cloneSymbol(sym), stamps: stamps}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries.Add(key, e)
	return true
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

func cloneSymbol(sym *debuginfo.Symbol) *debuginfo.Symbol {
	out := *sym
	if sym.Location != nil {
		loc := *sym.Location
		out.Location = &loc
	}
	return &out
}
