package program

import (
	"testing"
	"time"
)

func TestSessionFingerprint(t *testing.T) {
	day := date(2024, time.March, 4)
	base := []Session{
		{ID: 1, Date: day, ScheduledDayID: 1, Completed: true},
		{ID: 2, Date: day.AddDate(0, 0, 1), ScheduledDayID: 2, Completed: false},
	}

	t.Run("ignores record ids", func(t *testing.T) {
		renumbered := []Session{
			{ID: 7, Date: day, ScheduledDayID: 1, Completed: true},
			{ID: 9, Date: day.AddDate(0, 0, 1), ScheduledDayID: 2, Completed: false},
		}
		if sessionFingerprint(base) != sessionFingerprint(renumbered) {
			t.Error("fingerprint must not depend on record ids")
		}
	})

	t.Run("changes when completion flips", func(t *testing.T) {
		flipped := []Session{base[0], base[1]}
		flipped[1].Completed = true
		if sessionFingerprint(base) == sessionFingerprint(flipped) {
			t.Error("fingerprint must change when a completion flag flips")
		}
	})

	t.Run("changes when a record is added", func(t *testing.T) {
		grown := append([]Session{}, base...)
		grown = append(grown, Session{Date: day.AddDate(0, 0, 2), Completed: true})
		if sessionFingerprint(base) == sessionFingerprint(grown) {
			t.Error("fingerprint must change when a record is added")
		}
	})
}

func TestStatsCacheMemoizes(t *testing.T) {
	cache := newStatsCache()
	current := date(2024, time.March, 4)
	cache.now = func() time.Time { return current }
	cache.Reload([]Session{{Date: current, Completed: true}})

	computes := 0
	read := func() int {
		return cache.Streak(func() int {
			computes++
			return 1
		})
	}

	if got := read(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := read(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if computes != 1 {
		t.Errorf("got %d computations, want 1", computes)
	}

	t.Run("TTL expiry forces a recompute", func(t *testing.T) {
		current = current.Add(cacheTTL + time.Second)
		read()
		if computes != 2 {
			t.Errorf("got %d computations, want 2", computes)
		}
	})
}

func TestStatsCacheReadAfterWrite(t *testing.T) {
	cache := newStatsCache()
	current := date(2024, time.March, 4)
	cache.now = func() time.Time { return current }

	day := date(2024, time.March, 4)
	before := []Session{{Date: day, Completed: false}}
	after := []Session{{Date: day, Completed: true}}
	cache.Reload(before)

	sessions := before
	read := func() int {
		return cache.Streak(func() int {
			return currentStreak(sessions)
		})
	}

	if got := read(); got != 0 {
		t.Fatalf("got streak %d, want 0", got)
	}

	// A write changes the log content, so the very next read must see it even
	// though the TTL has not elapsed.
	sessions = after
	if changed := cache.Reload(after); !changed {
		t.Fatal("expected reload of a changed log to invalidate")
	}
	if got := read(); got != 1 {
		t.Errorf("got streak %d, want 1", got)
	}
}

func TestStatsCacheFingerprintSuppression(t *testing.T) {
	cache := newStatsCache()
	current := date(2024, time.March, 4)
	cache.now = func() time.Time { return current }

	day := date(2024, time.March, 4)
	log := []Session{{ID: 1, Date: day, Completed: true}}
	cache.Reload(log)

	computes := 0
	read := func() {
		cache.Streak(func() int {
			computes++
			return 0
		})
	}
	read()

	// Reloading an unchanged log, even with fresh record ids, must not expire
	// the cached aggregates.
	renumbered := []Session{{ID: 42, Date: day, Completed: true}}
	if changed := cache.Reload(renumbered); changed {
		t.Fatal("reload of an unchanged log must not invalidate")
	}
	read()
	if computes != 1 {
		t.Errorf("got %d computations, want 1", computes)
	}

	t.Run("explicit invalidation always expires", func(t *testing.T) {
		cache.Invalidate()
		read()
		if computes != 2 {
			t.Errorf("got %d computations, want 2", computes)
		}
	})
}
