package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TopicListKey returns the cache key for the topic listing
func (r *CacheKeyStruct) TopicListKey() string {
	return "topics:list"
}

// TopicQuestionsKey returns the cache key for a topic's ordered questions
func (r *CacheKeyStruct) TopicQuestionsKey(topicID uuid.UUID) string {
	return fmt.Sprintf("topic:%s:questions", topicID)
}

// QuizSessionKey returns the key a serialized quiz session lives under
func (r *CacheKeyStruct) QuizSessionKey(sessionID string) string {
	return fmt.Sprintf("quiz:session:%s", sessionID)
}

var CacheKey = NewCacheKeyStruct()
