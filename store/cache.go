/*
cache.go - Synchronous read-through snapshot

The query layer must answer without touching a tier: weekly-verse and
calendar lookups happen on every page render. The cache holds the last
known copy of each collection behind a RWMutex; setters on the store
keep it write-through, and RefreshCache rebuilds it after bulk loads.
Getters hand out copies so callers can never mutate the snapshot.
*/
package store

import (
	"sync"

	"github.com/grace/verse-engine/core"
)

// Cache is the in-memory snapshot of the persisted collections.
type Cache struct {
	mu      sync.RWMutex
	events  []core.Event
	verses  []core.Verse
	monthly []core.MonthlyVerse
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Events() []core.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]core.Event(nil), c.events...)
}

func (c *Cache) Verses() []core.Verse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]core.Verse(nil), c.verses...)
}

func (c *Cache) MonthlyVerses() []core.MonthlyVerse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]core.MonthlyVerse(nil), c.monthly...)
}

func (c *Cache) setEvents(events []core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append([]core.Event(nil), events...)
}

func (c *Cache) setVerses(verses []core.Verse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verses = append([]core.Verse(nil), verses...)
}

func (c *Cache) setMonthlyVerses(verses []core.MonthlyVerse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.monthly = append([]core.MonthlyVerse(nil), verses...)
}
