// Package treecache stores finished syntax trees on disk, keyed by the
// document text and the parser configuration that produced it. A parse of text seen
// before decodes the stored tree instead of running the parser.
package treecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	bolt "go.etcd.io/bbolt"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/tree"
)

const bucketTrees = "trees"

// keySize is the text hash followed by the scope fingerprint.
const keySize = 16

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("tree cache is closed")

// Cache is a bbolt-backed tree store. It is safe for concurrent use.
type Cache struct {
	db       *bolt.DB
	recorder metrics.Recorder
	logger   *log.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder reports cache lookups to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// WithLogger sets the logger used for hit and miss debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Open opens or creates the cache database at path.
func Open(path string, opts ...Option) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open tree cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTrees))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize tree cache: %w", err)
	}

	c := &Cache{db: db, recorder: metrics.NoopRecorder{}, logger: logging.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.db.Path()
}

// Scope is the parser configuration a tree is stored under. Parsers that
// share a node set can still build different trees for the same text,
// so the fingerprint also covers the active extensions and parsers.
type Scope struct {
	Set         *tree.NodeSet
	Fingerprint uint64
}

// ScopeOf returns the scope of trees produced by p.
func ScopeOf(p *markdown.Parser) Scope {
	h := xxhash.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], p.NodeSet().Fingerprint())
	_, _ = h.Write(buf[:])
	for _, names := range [][]string{p.Extensions(), p.BlockParserNames(), p.InlineParserNames()} {
		_, _ = h.WriteString(strings.Join(names, "\x00"))
		_, _ = h.WriteString("\x01")
	}
	return Scope{Set: p.NodeSet(), Fingerprint: h.Sum64()}
}

// Key returns the cache key for text parsed within scope.
func Key(text string, scope Scope) []byte {
	key := make([]byte, 0, keySize)
	key = binary.BigEndian.AppendUint64(key, xxhash.Sum64String(text))
	return binary.BigEndian.AppendUint64(key, scope.Fingerprint)
}

// Get returns the stored tree for text, if any. An entry that no longer
// decodes is removed and reported as a miss.
func (c *Cache) Get(text string, scope Scope) (*tree.Tree, bool, error) {
	key := Key(text, scope)
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketTrees)).Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read tree cache: %w", err)
	}
	if data == nil {
		c.lookup(key, false)
		return nil, false, nil
	}

	t, err := tree.Decode(data, scope.Set)
	if err != nil || t.Length() != len(text) {
		c.logger.Warn("dropping unreadable cache entry", logging.FieldKey, fmt.Sprintf("%x", key), logging.FieldError, err)
		if delErr := c.delete(key); delErr != nil {
			return nil, false, delErr
		}
		c.lookup(key, false)
		return nil, false, nil
	}
	c.lookup(key, true)
	return t, true, nil
}

func (c *Cache) lookup(key []byte, hit bool) {
	c.recorder.IncCacheLookup(hit)
	c.logger.Debug("tree cache lookup", logging.FieldKey, fmt.Sprintf("%x", key[:8]), logging.FieldHit, hit)
}

// Put stores t as the tree of text.
func (c *Cache) Put(text string, scope Scope, t *tree.Tree) error {
	key := Key(text, scope)
	data := tree.Encode(t, scope.Set)
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTrees)).Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("write tree cache: %w", err)
	}
	return nil
}

func (c *Cache) delete(key []byte) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTrees)).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete tree cache entry: %w", err)
	}
	return nil
}

// Len returns the number of stored trees.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketTrees)).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every stored tree.
func (c *Cache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketTrees)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketTrees))
		return err
	})
}
