package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionTokenKey returns the cache key holding a session's upstream access token.
func (r *CacheKeyStruct) SessionTokenKey(sessionID string) string {
	return fmt.Sprintf("session:%s:token", sessionID)
}

// SessionUserKey returns the cache key holding a session's serialized identity.
func (r *CacheKeyStruct) SessionUserKey(sessionID string) string {
	return fmt.Sprintf("session:%s:user", sessionID)
}

// UpstreamStatusKey returns the cache key for the last observed upstream health.
func (r *CacheKeyStruct) UpstreamStatusKey() string {
	return "upstream:status"
}

var CacheKey = NewCacheKeyStruct()
