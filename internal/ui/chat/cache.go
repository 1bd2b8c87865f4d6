// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "sync"

// maxCachedRenders bounds the markdown cache. When full it is dropped.
const maxCachedRenders = 256

// renderCache memoizes rendered markdown for settled messages, keyed by
// content. It is reset whenever the renderer's style or width changes.
type renderCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]string)}
}

// Get returns the cached rendering of content, calling render on a miss.
func (c *renderCache) Get(content string, render func(string) string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if out, ok := c.entries[content]; ok {
		return out
	}
	out := render(content)
	if len(c.entries) >= maxCachedRenders {
		clear(c.entries)
	}
	c.entries[content] = out
	return out
}

// Len returns the number of cached entries.
func (c *renderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *renderCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
