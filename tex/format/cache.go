// cache.go - on-disk cache of format files
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package format

import (
	"encoding/base64"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/singleflight"
)

var cacheDir = flag.String("format-cache", "",
	"cache directory for format files")

const suffix = ".fmt"

// Cache stores snapshots on disk for later retrieval.  A Cache can be
// used by several goroutines at the same time.
type Cache struct {
	dir   string
	start time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache creates a new cache, backed by subdirectory subdir of the
// cache directory.  The cache directory is given by the -format-cache
// flag, the TEXPARSER_FORMATS environment variable or the user's
// cache directory, in this order.
func NewCache(subdir string) (*Cache, error) {
	dir := *cacheDir
	if dir == "" {
		dir = os.Getenv("TEXPARSER_FORMATS")
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "de.seehuhn.texparser")
	}
	return Open(filepath.Join(dir, subdir))
}

// Open creates a cache backed by the given directory.  The cache is
// pre-populated with the format files found there.
func Open(dir string) (*Cache, error) {
	c := &Cache{
		dir:     dir,
		start:   time.Now(),
		entries: make(map[string]*entry),
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, de := range files {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, suffix) {
			log.Printf("cache %s: unexpected file %q", dir, name)
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue
		}
		e := &entry{
			Size: fi.Size(),
			Time: fi.ModTime(),
		}
		c.entries[strings.TrimSuffix(name, suffix)] = e
		total += e.Size
	}
	log.Printf("cache %s: %s (%d formats)", dir, byteSize(total), len(c.entries))
	return c, nil
}

// Close must be called when the cache is no longer needed.  Up to
// pruneLimit bytes of format files are left in the cache directory.
// Files added through this Cache are always kept, unless pruneLimit
// is negative; in this case the whole directory is removed.
func (c *Cache) Close(pruneLimit int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var all []pruneEntry
	var total int64
	for hash, e := range c.entries {
		all = append(all, pruneEntry{key: hash, entry: e})
		total += e.Size
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Time.Before(all[j].Time)
	})

	var err error
	var count int
	var removed int64
	for _, pe := range all {
		if total <= pruneLimit {
			break
		}
		if pruneLimit >= 0 && c.start.Before(pe.Time) {
			break
		}
		e2 := os.Remove(c.filePath(pe.key))
		if err == nil {
			err = e2
		}
		count++
		removed += pe.Size
		total -= pe.Size
	}
	if count > 0 {
		log.Printf("cache %s: removed %s (%d formats)", c.dir, byteSize(removed), count)
	}
	if pruneLimit < 0 {
		_ = os.Remove(c.dir)
	}

	c.entries = nil
	return err
}

// Has checks whether a snapshot is stored for key.
func (c *Cache) Has(key string) bool {
	hash := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if ok {
		e.Time = time.Now()
	}
	return ok
}

// Put stores a snapshot under the given key, replacing any previous
// snapshot for this key.
func (c *Cache) Put(key string, s *Snapshot) (err error) {
	hash := hashKey(key)
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	err = s.Write(tmp)
	if err != nil {
		tmp.Close()
		return err
	}
	fi, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Rename(tmp.Name(), c.filePath(hash))
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[hash] = &entry{Size: fi.Size(), Time: time.Now()}
	c.mu.Unlock()
	return nil
}

// Get returns the snapshot stored for key.  If there is none, the
// error satisfies os.IsNotExist.
func (c *Cache) Get(key string) (*Snapshot, error) {
	hash := hashKey(key)
	in, err := os.Open(c.filePath(hash))
	if err != nil {
		return nil, err
	}
	defer in.Close()

	c.mu.Lock()
	if e, ok := c.entries[hash]; ok {
		e.Time = time.Now()
	}
	c.mu.Unlock()
	return Read(in)
}

// Load returns the snapshot stored for key.  If there is none, build
// is called to create it and the result is stored.  Concurrent calls
// for the same key share a single call of build.
func (c *Cache) Load(key string, build func() (*Snapshot, error)) (*Snapshot, error) {
	res, err, _ := c.group.Do(hashKey(key), func() (interface{}, error) {
		if c.Has(key) {
			s, err := c.Get(key)
			if err == nil {
				return s, nil
			}
			log.Printf("cache %s: %v", c.dir, err)
		}
		s, err := build()
		if err != nil {
			return nil, err
		}
		return s, c.Put(key, s)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Snapshot), nil
}

func (c *Cache) filePath(hash string) string {
	return filepath.Join(c.dir, hash+suffix)
}

func hashKey(key string) string {
	h := sha3.NewShake128()
	h.Write([]byte(key))
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

type entry struct {
	Size int64
	Time time.Time
}

type pruneEntry struct {
	key string
	*entry
}
