// Package cache provides a generic, thread-safe LRU cache.
//
// It bounds in-process state that is keyed by tenant or user, such as the
// per-tenant usage clients and per-user notification broadcasters:
//
//	clients := cache.NewLRUCache[string, *usage.Client](1000)
//	c := clients.GetOrCreate(tenantID, func() *usage.Client { return newClient(tenantID) })
//
// An optional eviction callback releases resources held by evicted values.
package cache
