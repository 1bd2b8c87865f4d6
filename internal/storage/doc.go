// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations and settings for aurora.
//
// Persistence is a small string key/value store, the same shape the browser
// client used: a "chats" entry holding every conversation as one JSON array,
// a "settings" JSON object, and optional avatar entries. Each write replaces
// the whole value; the last write wins.
//
// # Key Types
//
//   - KV: string key/value contract implemented by every backend
//   - FileKV: one file per key under the data directory (default)
//   - SQLiteKV: a single kv table in an SQLite database
//   - MemoryKV: in-process map, for tests and --ephemeral runs
//   - Repository: typed load/save of conversations and settings over a KV
//
// # Usage
//
//	kv, err := storage.Open(storage.BackendFile, dataDir)
//	repo := storage.NewRepository(kv)
//	chats, err := repo.LoadChats()
//
// # Storage Location
//
// By default data lives in ~/.aurora/data/.
package storage
