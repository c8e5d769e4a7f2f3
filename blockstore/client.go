// Package blockstore is the block-store client described in spec §4.3/§6: a
// keyed byte store addressed by (rack_ip, port), reached per-block over the
// memcached wire protocol. original_source/src/memcached_client.{hpp,cpp}
// wraps libmemcached with a per-"ip:port" connection cache; this wraps
// gomemcache the same way, backed by an LRU so long-running benchmark
// drivers don't grow the cache without bound.
package blockstore

import (
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultCacheSize bounds the number of distinct (ip, port) endpoints a
// Client keeps live connections for.
const DefaultCacheSize = 256

// Store is the (ip, port)-addressed byte store spec §4.3/§6 describes.
// *Client satisfies it against a real memcached cluster; callers that need
// to exercise placement/repair logic without one (tests) can supply any
// other implementation.
type Store interface {
	Set(ip string, port int, key string, value []byte) error
	Get(ip string, port int, key string) (value []byte, found bool, err error)
}

var _ Store = (*Client)(nil)

// Client caches one *memcache.Client per "ip:port" endpoint, matching the
// original C++ MemcachedClient::server_map. The endpoint cache is an
// lru.Cache, which locks internally, but endpoint lookup and creation are
// not one atomic step: two goroutines reaching a new endpoint at the same
// time may each create a *memcache.Client, and the later Add replaces the
// earlier one. The repair executor calls Get from several goroutines at
// once without a lock around the call.
type Client struct {
	endpoints *lru.Cache[string, *memcache.Client]
}

// NewClient creates a Client with room for cacheSize distinct endpoints.
func NewClient(cacheSize int) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *memcache.Client](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "blockstore: creating endpoint cache")
	}
	return &Client{endpoints: cache}, nil
}

func endpointKey(ip string, port int) string {
	return fmt.Sprintf("%s:%d", ip, port)
}

func (c *Client) endpoint(ip string, port int) *memcache.Client {
	key := endpointKey(ip, port)
	if mc, ok := c.endpoints.Get(key); ok {
		return mc
	}
	mc := memcache.New(key)
	c.endpoints.Add(key, mc)
	return mc
}

// Key builds the "block_<id>" key format spec §6 requires.
func Key(blockID int) string {
	return fmt.Sprintf("block_%d", blockID)
}

// Set overwrites the value stored at key on the given endpoint.
func (c *Client) Set(ip string, port int, key string, value []byte) error {
	mc := c.endpoint(ip, port)
	err := mc.Set(&memcache.Item{Key: key, Value: value})
	if err != nil {
		return errors.Wrapf(err, "blockstore: set %s on %s", key, endpointKey(ip, port))
	}
	return nil
}

// Get fetches the value stored at key on the given endpoint. found is false
// (with a nil error) when the key is absent, matching spec §6/§7's
// "not-found is not an error" contract.
func (c *Client) Get(ip string, port int, key string) (value []byte, found bool, err error) {
	mc := c.endpoint(ip, port)
	item, getErr := mc.Get(key)
	if getErr == memcache.ErrCacheMiss {
		return nil, false, nil
	}
	if getErr != nil {
		return nil, false, errors.Wrapf(getErr, "blockstore: get %s on %s", key, endpointKey(ip, port))
	}
	return item.Value, true, nil
}
