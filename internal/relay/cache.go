package relay

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by Cache.Get when an entry is older than the TTL.
var ErrExpired = errors.New("cache entry expired")

// Cache stores fetched documents as JSON files named by the SHA-256 of the
// URL. Entry age is the file modification time; a TTL of 0 never expires.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache in dir, creating the directory if needed
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get loads the document cached for url.
// It returns (nil, nil) on a miss and ErrExpired for a stale entry.
func (c *Cache) Get(url string) (*Document, error) {
	path := c.keyPath(url)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, ErrExpired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Set stores doc under its URL, replacing any previous entry
func (c *Cache) Set(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	path := c.keyPath(doc.URL)
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
