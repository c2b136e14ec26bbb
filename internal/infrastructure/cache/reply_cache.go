// Package cache keeps AI provider replies on disk so that the same failure
// is not sent to the provider twice within the TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Entry is one cached reply.
type Entry struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FileCache stores provider replies as JSON blobs addressed by hash key.
type FileCache struct {
	dir        string
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewFileCache returns a cache rooted at dir. A non-positive maxEntries
// disables eviction; a zero ttl keeps entries forever.
func NewFileCache(dir string, maxEntries int, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, maxEntries: maxEntries, ttl: ttl, now: time.Now}
}

// Key hashes the request that produced a reply.
func Key(model, systemPrompt, userPrompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + systemPrompt + "\x00" + userPrompt))
	return hex.EncodeToString(sum[:])
}

// Get retrieves an unexpired entry.
func (c *FileCache) Get(key string) (Entry, bool, error) {
	if key == "" {
		return Entry{}, false, nil
	}
	path := c.pathFor(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, err
	}
	if c.ttl > 0 && c.now().Sub(entry.CreatedAt) > c.ttl {
		_ = os.Remove(path)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Set stores an entry and evicts the oldest files over the limit.
func (c *FileCache) Set(entry Entry) error {
	if entry.Key == "" {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(entry.Key), data, domain.SecureFilePermissions); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Len counts cached files.
func (c *FileCache) Len() (int, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, f := range files {
		if !f.IsDir() {
			n++
		}
	}
	return n, nil
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) evictIfNeeded() error {
	if c.maxEntries <= 0 {
		return nil
	}
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(files) <= c.maxEntries {
		return nil
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var infos []fileInfo
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for len(infos) > c.maxEntries {
		_ = os.Remove(filepath.Join(c.dir, infos[0].name))
		infos = infos[1:]
	}
	return nil
}

// CachingChat serves repeated prompts from a FileCache.
type CachingChat struct {
	next   ports.ChatClient
	cache  *FileCache
	model  string
	logger ports.Logger
}

// NewCachingChat wraps next.
func NewCachingChat(next ports.ChatClient, cache *FileCache, model string, log ports.Logger) *CachingChat {
	return &CachingChat{next: next, cache: cache, model: model, logger: log}
}

// Chat implements ports.ChatClient. Cache failures never fail the call.
func (c *CachingChat) Chat(ctx context.Context, systemPrompt, userPrompt string) (ports.ChatResponse, error) {
	key := Key(c.model, systemPrompt, userPrompt)
	if entry, ok, err := c.cache.Get(key); err != nil {
		c.logger.Debug("reply cache read failed", map[string]interface{}{"error": err.Error()})
	} else if ok {
		return ports.ChatResponse{Content: entry.Content}, nil
	}

	resp, err := c.next.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return resp, err
	}
	if err := c.cache.Set(Entry{Key: key, Model: c.model, Content: resp.Content}); err != nil {
		c.logger.Debug("reply cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

var _ ports.ChatClient = (*CachingChat)(nil)
