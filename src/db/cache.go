package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Categories are shared, read-mostly reference data, so lookups by id go
// through an in-process cache. Keys are tracked separately so a mutation can
// clear the whole category keyspace without touching anything else cached.
var (
	Cache             *ristretto.Cache
	CategoryCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func SetCategoryCache(cacheKey string, value interface{}) {
	if Cache == nil {
		return
	}
	CategoryCacheKeys.Lock()
	CategoryCacheKeys.m[cacheKey] = struct{}{}
	CategoryCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func GetCategoryCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

func ClearAllCategoryCaches() {
	if Cache == nil {
		return
	}
	CategoryCacheKeys.Lock()
	for key := range CategoryCacheKeys.m {
		Cache.Del(key)
	}
	CategoryCacheKeys.m = make(map[string]struct{})
	CategoryCacheKeys.Unlock()
}
