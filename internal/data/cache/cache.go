package cache

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Key identifies one reconstruction: the same log read with a different table or different
// options is a different entry.
type Key struct {
	FilePath    string
	TableDigest string
	Options     string
}

// ID is the cache file stem for the key.
func (k Key) ID() string {
	abs, err := filepath.Abs(k.FilePath)
	if err != nil {
		abs = k.FilePath
	}
	sum := crc32.ChecksumIEEE([]byte(abs + "\x00" + k.TableDigest + "\x00" + k.Options))
	return fmt.Sprintf("%s-%08x", strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)), sum)
}

// Entry is what is persisted per key.
type Entry struct {
	Key    Key                 `json:"key"`
	File   util.FileInfo       `json:"file"`
	Result *reconstruct.Result `json:"result"`
}

type CacheResult struct {
	Data       *reconstruct.Result
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(key Key) CacheResult
	Set(key Key, result *reconstruct.Result) error
	Clear() error
}

type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

func (c *FileCache) path(id string) string {
	return filepath.Join(c.baseDir, id+".json")
}

func (c *FileCache) Get(key Key) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.ID()

	// Memory first, then disk
	if entry, exists := c.memoryCache[id]; exists {
		if reason := c.validate(entry); reason == MissReasonNone {
			return CacheResult{Data: entry.Result, Found: true}
		}
		delete(c.memoryCache, id)
	}

	return c.getFromFile(id)
}

func (c *FileCache) getFromFile(id string) CacheResult {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return CacheResult{MissReason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebugf("Discarding unreadable cache file %s: %v", c.path(id), err)
		return CacheResult{MissReason: MissReasonError}
	}
	if entry.Result == nil || entry.Result.Store == nil {
		return CacheResult{MissReason: MissReasonError}
	}

	if reason := c.validate(&entry); reason != MissReasonNone {
		return CacheResult{MissReason: reason}
	}

	c.memoryCache[id] = &entry
	return CacheResult{Data: entry.Result, Found: true}
}

func (c *FileCache) validate(entry *Entry) CacheMissReason {
	current, err := util.GetFileInfo(entry.Key.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", entry.Key.FilePath, err)
		return MissReasonError
	}

	switch {
	case current.Inode != entry.File.Inode:
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.Key.FilePath, entry.File.Inode, current.Inode)
		return MissReasonInode
	case current.Size != entry.File.Size:
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.Key.FilePath, entry.File.Size, current.Size)
		return MissReasonSize
	case current.ModTime != entry.File.ModTime:
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.Key.FilePath, entry.File.ModTime, current.ModTime)
		return MissReasonModTime
	case current.Fingerprint != entry.File.Fingerprint:
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.Key.FilePath, entry.File.Fingerprint, current.Fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

func (c *FileCache) Set(key Key, result *reconstruct.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := util.GetFileInfo(key.FilePath)
	if err != nil {
		return err
	}

	entry := &Entry{Key: key, File: *info, Result: result}
	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	id := key.ID()
	if err := os.WriteFile(c.path(id), data, 0644); err != nil {
		return err
	}

	c.memoryCache[id] = entry
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}
		return nil
	})
}

func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	memoryCount = len(c.memoryCache)

	filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			fileCount++
		}
		return nil
	})

	return memoryCount, fileCount
}
