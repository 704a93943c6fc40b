package program

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheTTL bounds how long a memoized aggregate is served without recomputing,
// even when no mutation was observed.
const cacheTTL = 5 * time.Minute

// cacheEntry is a memoized aggregate stamped with the cache generation it was
// computed under. An entry is served only while its generation matches the
// current one and its age is within cacheTTL.
type cacheEntry[T any] struct {
	value      T
	computedAt time.Time
	generation uint64
}

// statsCache memoizes aggregate queries. Mutations never clear entries
// directly; they bump a generation counter, which lazily invalidates every
// entry on its next read. Reloading an unchanged session list leaves the
// generation alone so unrelated reloads do not cause recompute storms.
type statsCache struct {
	mu          sync.Mutex
	generation  uint64
	fingerprint string
	now         func() time.Time
	group       singleflight.Group

	stats    cacheEntry[CycleStats]
	progress cacheEntry[Progress]
	week     cacheEntry[[]Session]
	streak   cacheEntry[int]
}

func newStatsCache() *statsCache {
	return &statsCache{
		generation: 1,
		now:        time.Now,
	}
}

// sessionFingerprint builds a content hash of the session list. Two loads
// with the same dates, completion flags, and derived schedule positions
// produce the same fingerprint regardless of record IDs.
func sessionFingerprint(sessions []Session) string {
	var b strings.Builder
	for _, sess := range sessions {
		b.WriteString(formatDate(sess.Date))
		b.WriteByte('|')
		b.WriteString(strconv.FormatBool(sess.Completed))
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(sess.ScheduledDayID))
		b.WriteByte(';')
	}
	return b.String()
}

// Reload records the fingerprint of a freshly loaded session list and bumps
// the generation only when it differs from the previous load. It reports
// whether the cached aggregates were invalidated.
func (c *statsCache) Reload(sessions []Session) bool {
	fingerprint := sessionFingerprint(sessions)

	c.mu.Lock()
	defer c.mu.Unlock()
	if fingerprint == c.fingerprint {
		return false
	}
	c.fingerprint = fingerprint
	c.generation++
	return true
}

// Invalidate unconditionally expires every cached aggregate. Used when the
// schedule or the start date changes, neither of which is covered by the
// session fingerprint.
func (c *statsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

// cached returns the memoized value for entry, recomputing it when the entry
// is stale. Concurrent reads of the same key share one computation.
func cached[T any](c *statsCache, entry *cacheEntry[T], key string, compute func() T) T {
	c.mu.Lock()
	generation := c.generation
	current := *entry
	age := c.now().Sub(current.computedAt)
	c.mu.Unlock()

	if current.generation == generation && age < cacheTTL {
		return current.value
	}

	value, _, _ := c.group.Do(key, func() (any, error) {
		v := compute()
		c.mu.Lock()
		*entry = cacheEntry[T]{
			value:      v,
			computedAt: c.now(),
			generation: generation,
		}
		c.mu.Unlock()
		return v, nil
	})
	return value.(T)
}

func (c *statsCache) CycleStats(compute func() CycleStats) CycleStats {
	return cached(c, &c.stats, "cycle-stats", compute)
}

func (c *statsCache) Progress(compute func() Progress) Progress {
	return cached(c, &c.progress, "progress", compute)
}

func (c *statsCache) WeekSessions(compute func() []Session) []Session {
	return cached(c, &c.week, "week-sessions", compute)
}

func (c *statsCache) Streak(compute func() int) int {
	return cached(c, &c.streak, "streak", compute)
}
