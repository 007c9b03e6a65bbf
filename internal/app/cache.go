package app

import (
	"sync"

	"github.com/felthound/felthound/internal/domain/verdict"
)

// cacheNode is a single entry in the cache's eviction list.
type cacheNode struct {
	key     string
	verdict verdict.Verdict
	next    *cacheNode
}

// reset clears the node state for reuse.
func (n *cacheNode) reset() {
	n.key = ""
	n.verdict = verdict.Verdict{}
	n.next = nil
}

// verdictCache memoizes composite verdicts keyed on (playerID, profile
// version). A re-imported profile gets a new version and therefore a fresh
// evaluation; stale versions age out through eviction. Bounded mode evicts
// the oldest entry once full; a non-positive maxSize disables eviction.
type verdictCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheNode
	head     *cacheNode
	maxSize  int
	nodePool sync.Pool
}

// newVerdictCache creates a cache bounded to maxSize entries.
func newVerdictCache(maxSize int) *verdictCache {
	c := &verdictCache{
		entries: make(map[string]*cacheNode),
		maxSize: maxSize,
	}
	if c.maxSize > 0 {
		c.nodePool = sync.Pool{
			New: func() interface{} {
				return &cacheNode{}
			},
		}
	}
	return c
}

// get returns the cached verdict for a key, if present.
func (c *verdictCache) get(key string) (verdict.Verdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[key]
	if !ok || n == nil {
		return verdict.Verdict{}, false
	}
	return n.verdict, true
}

// put stores a verdict, evicting the oldest entry when bounded and full.
func (c *verdictCache) put(key string, v verdict.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok && n != nil {
		n.verdict = v
		return
	}

	if c.maxSize <= 0 {
		n := &cacheNode{key: key, verdict: v}
		c.entries[key] = n
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*cacheNode)
	n.key = key
	n.verdict = v
	n.next = c.head
	c.head = n
	c.entries[key] = n
}

// size returns the current number of cached verdicts.
func (c *verdictCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest removes the entry at the tail of the list.
// Must be called with c.mu held.
func (c *verdictCache) evictOldest() {
	if c.head == nil {
		return
	}

	if c.head.next == nil {
		delete(c.entries, c.head.key)
		c.head.reset()
		c.nodePool.Put(c.head)
		c.head = nil
		return
	}

	var prev *cacheNode
	current := c.head
	for current.next != nil {
		prev = current
		current = current.next
	}
	prev.next = nil
	delete(c.entries, current.key)
	current.reset()
	c.nodePool.Put(current)
}
