// Package cache provides a byte-bounded LRU cache for blob contents.
//
// LRU is safe for concurrent use. Entries larger than the capacity are never
// cached. Callers must not mutate slices returned by Get.
package cache
