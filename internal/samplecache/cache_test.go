// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package samplecache

import (
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(DefaultCapacity, DefaultTTL)
	key := Key("events", "user", "al")
	c.Put(key, []string{"alice"})

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != 1 || got[0] != "alice" {
		t.Errorf("got %v", got)
	}
}

func TestKeyIsCaseInsensitiveOnSubstring(t *testing.T) {
	if Key("t", "c", "AL") != Key("t", "c", "al") {
		t.Error("Key should lower-case the substring")
	}
}

func TestEvictsOldestOnOverflow(t *testing.T) {
	c := New(2, DefaultTTL)
	c.Put("a", []string{"1"})
	c.Put("b", []string{"2"})
	c.Put("c", []string{"3"})

	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be evicted as oldest")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected 'b' to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected 'c' to survive")
	}
}

func TestAccessRefreshesLRUPosition(t *testing.T) {
	c := New(2, DefaultTTL)
	c.Put("a", []string{"1"})
	c.Put("b", []string{"2"})

	// Touch "a" so it becomes most-recently-used; "b" should be evicted next.
	c.Get("a")
	c.Put("c", []string{"3"})

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted after 'a' was refreshed")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected 'a' to survive due to refreshed access")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := New(DefaultCapacity, time.Nanosecond)
	c.Put("a", []string{"1"})
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestLenReflectsEntries(t *testing.T) {
	c := New(DefaultCapacity, DefaultTTL)
	c.Put("a", []string{"1"})
	c.Put("b", []string{"2"})
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
