package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// Analytics query results are cached so repeated dashboard loads skip the
// aggregation round-trip. Keys are tracked per user so a write by that user
// clears exactly their entries and nobody else's.
var (
	Cache              *ristretto.Cache
	AnalyticsCacheKeys = struct {
		sync.RWMutex
		m map[uuid.UUID]map[string]struct{}
	}{m: make(map[uuid.UUID]map[string]struct{})}
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

func SetAnalyticsCache(userID uuid.UUID, cacheKey string, value interface{}) {
	if Cache == nil {
		return
	}
	AnalyticsCacheKeys.Lock()
	if AnalyticsCacheKeys.m[userID] == nil {
		AnalyticsCacheKeys.m[userID] = make(map[string]struct{})
	}
	AnalyticsCacheKeys.m[userID][cacheKey] = struct{}{}
	AnalyticsCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func GetAnalyticsCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

// ClearAnalyticsCache drops every cached analytics result for one user. Called
// after any write touching that user's transactions.
func ClearAnalyticsCache(userID uuid.UUID) {
	if Cache == nil {
		return
	}
	AnalyticsCacheKeys.Lock()
	for key := range AnalyticsCacheKeys.m[userID] {
		Cache.Del(key)
	}
	delete(AnalyticsCacheKeys.m, userID)
	AnalyticsCacheKeys.Unlock()
}
