package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthorSessionKey returns the cache key for an author's active session JTI.
func (r *CacheKeyStruct) AuthorSessionKey(authorID int) string {
	return fmt.Sprintf("author:%d:session", authorID)
}

// QuestionPayloadKey returns the cache key for a persisted question document.
func (r *CacheKeyStruct) QuestionPayloadKey(questionID string) string {
	return fmt.Sprintf("question:%s:payload", questionID)
}

var CacheKey = NewCacheKeyStruct()
