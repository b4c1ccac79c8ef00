package translation

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/nbtranslate/internal/logger"
)

// Cache stores translations by key
type Cache interface {
	Get(key string) (string, bool, error)
	Add(key, translation string) error
}

// TranslationCache stores translations in memory for the lifetime of a run
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(key, translation string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[key] = translation
	return nil
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(key string) (string, bool, error) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[key]
	return translation, ok, nil
}

// SQLiteCache persists translations across runs in a SQLite database
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens or creates the cache database at path
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS translations (
		key TEXT PRIMARY KEY,
		translation TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get retrieves a translation from the database
func (c *SQLiteCache) Get(key string) (string, bool, error) {
	var translation string
	err := c.db.QueryRow(`SELECT translation FROM translations WHERE key = ?`, key).Scan(&translation)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}
	return translation, true, nil
}

// Add stores a translation, replacing any previous one for key
func (c *SQLiteCache) Add(key, translation string) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO translations (key, translation, created_at) VALUES (?, ?, ?)`,
		key, translation, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Len returns the number of cached translations
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// CachedTranslator consults a cache before calling the wrapped translator
type CachedTranslator struct {
	next      Translator
	cache     Cache
	namespace string
}

// NewCachedTranslator wraps next with cache. Keys are scoped by namespace,
// which should identify the provider, model and target language.
func NewCachedTranslator(next Translator, cache Cache, namespace string) *CachedTranslator {
	return &CachedTranslator{
		next:      next,
		cache:     cache,
		namespace: namespace,
	}
}

// Translate returns a cached translation or asks the wrapped translator.
// Cache failures are logged and never fail the translation.
func (t *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	key := CacheKey(t.namespace, text)

	if translation, ok, err := t.cache.Get(key); err != nil {
		logger.Warn("translation cache lookup failed: %v", err)
	} else if ok {
		logger.Debug("cache hit for %s", key[:12])
		return translation, nil
	}

	translation, err := t.next.Translate(ctx, text)
	if err != nil {
		return "", err
	}

	if err := t.cache.Add(key, translation); err != nil {
		logger.Warn("translation cache store failed: %v", err)
	}

	return translation, nil
}

// Name returns the wrapped provider name
func (t *CachedTranslator) Name() string {
	return t.next.Name()
}

// CacheKey derives the cache key for text within namespace
func CacheKey(namespace, text string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
