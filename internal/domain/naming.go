package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ThreadLogPath returns the path to a thread's log file.
func ThreadLogPath(logDir string, threadID ID) string {
	return filepath.Join(logDir, fmt.Sprintf("%s%d.log", ThreadLogPrefix, threadID))
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(logDir string) string {
	return filepath.Join(logDir, GlobalLogName)
}

// ItemURL returns the API URL of an item.
func ItemURL(baseURL string, id ID) string {
	return fmt.Sprintf("%s/item/%d.json", strings.TrimRight(baseURL, "/"), id)
}

// FeedURL returns the API URL of a feed.
func FeedURL(baseURL string, feed Feed) string {
	return fmt.Sprintf("%s/%s.json", strings.TrimRight(baseURL, "/"), feed.Path())
}

// ItemPageURL returns the rendered discussion page of an item.
func ItemPageURL(webURL string, id ID) string {
	return fmt.Sprintf("%s/item?id=%d", strings.TrimRight(webURL, "/"), id)
}

// ItemCacheKey returns the shared cache key of an item.
func ItemCacheKey(id ID) string {
	return fmt.Sprintf("item:%d", id)
}
