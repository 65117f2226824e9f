package loader

import (
	"fmt"

	"github.com/hashicorp/golang-lru"
	"github.com/jnwhiteh/userkernel/common"
)

// Source is where executables are read from.
type Source interface {
	Stat(name string) (common.InodeInfo, error)
	ReadFile(name string) ([]byte, common.InodeInfo, error)
}

// Cache decodes executables read from a Source, caching decoded Images by
// the identity and version of the file they were read from. Rewriting or
// replacing an executable therefore never yields a stale Image.
type Cache struct {
	src   Source
	reg   *Registry
	cache *lru.Cache
}

// NewCache returns a Cache of the given size (which must be > 0).
func NewCache(src Source, reg *Registry, size int) *Cache {
	var cache, err = lru.New(size)
	if err != nil {
		panic(err.Error()) // Only errors on size <= 0.
	}
	return &Cache{src: src, reg: reg, cache: cache}
}

// Load returns the Image of the executable |name|.
func (c *Cache) Load(name string) (*Image, error) {
	if info, err := c.src.Stat(name); err != nil {
		return nil, err
	} else if v, ok := c.cache.Get(cacheKey(info)); ok {
		return v.(*Image), nil
	}

	var data, info, err = c.src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, c.reg)
	if err != nil {
		return nil, err
	}
	c.cache.Add(cacheKey(info), img)
	return img, nil
}

// Len returns the number of cached Images.
func (c *Cache) Len() int { return c.cache.Len() }

func cacheKey(info common.InodeInfo) string {
	return fmt.Sprintf("%s@%d", info.Key, info.Version)
}
