package proxied

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ProgramCache stores compiled expression programs. Keys are namespaced per
// engine and function registry so one cache can be shared by several
// evaluators.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type lruProgramCache struct {
	cache *lru.Cache[string, any]
}

// NewLRUProgramCache returns a ProgramCache holding at most size programs,
// evicting the least recently used. It is safe for concurrent use.
func NewLRUProgramCache(size int) (ProgramCache, error) {
	cache, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("proxied: program cache: %w", err)
	}
	return &lruProgramCache{cache: cache}, nil
}

func (c *lruProgramCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *lruProgramCache) Set(key string, value any) {
	c.cache.Add(key, value)
}

// cacheKey namespaces expression by engine and by the registry the program
// was compiled against.
func cacheKey(engine string, registry *FunctionRegistry, expression string) string {
	return engine + ":" + registry.namespace() + ":" + expression
}
