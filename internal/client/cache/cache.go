package cache

import (
	"strings"
	"sync"
)

// ResolveInfo is passed to a Resolver. Setting Partial marks the result as
// incomplete so the caller goes to the network as well.
type ResolveInfo struct {
	ParentKey string
	FieldName string
	Partial   bool
}

// Resolver computes a field from the store instead of reading it directly.
// Returning nil means a cache miss.
type Resolver func(s *Store, args map[string]any, info *ResolveInfo) any

// Updater patches the store after a mutation's result has been written.
type Updater func(s *Store, result any, vars map[string]any)

// Config wires the per-type behaviour of a Cache.
type Config struct {
	// Keys overrides entity keys per typename. A nil KeyFunc embeds the type.
	Keys map[string]KeyFunc
	// Resolvers maps root Query field names to resolvers.
	Resolvers map[string]Resolver
	// Updates maps mutation field names to updaters.
	Updates map[string]Updater
}

// Cache is a normalized GraphQL result cache. All reads and writes,
// including resolvers and updaters, run under one lock.
type Cache struct {
	mu    sync.Mutex
	store *Store
	cfg   Config
}

func New(cfg Config) *Cache {
	return &Cache{
		store: newStore(cfg.Keys),
		cfg:   cfg,
	}
}

// ReadQuery reads a root Query field. ok is false on a miss; partial is
// true when something was served but the requested data is incomplete.
func (c *Cache) ReadQuery(fieldName string, args map[string]any) (data any, partial, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var raw any
	if resolve, found := c.cfg.Resolvers[fieldName]; found {
		info := &ResolveInfo{ParentKey: RootKey, FieldName: fieldName}
		raw = resolve(c.store, args, info)
		if raw == nil {
			return nil, false, false
		}
		partial = info.Partial
		// resolvers return shapes holding links; park them in a scratch
		// record so denormalize can follow them
		raw = c.store.normalize(scratchKey, raw)
		defer delete(c.store.records, scratchKey)
	} else {
		v, found := c.store.Resolve(RootKey, FieldKey(fieldName, args))
		if !found {
			return nil, false, false
		}
		raw = v
	}

	data, complete := c.store.denormalize(raw, 0)
	return data, partial || !complete, true
}

const scratchKey = "__resolved"

// WriteQuery stores the network result of a root Query field.
func (c *Cache) WriteQuery(fieldName string, args map[string]any, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Write(RootKey, fieldName, args, data)
}

// ApplyMutation normalizes any entities in a mutation result and then runs
// the mutation's updater, if one is configured.
func (c *Cache) ApplyMutation(fieldName string, vars map[string]any, result any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if obj, ok := result.(map[string]any); ok {
		c.store.normalize(mutationKey+"."+fieldName, obj)
	}
	if update, ok := c.cfg.Updates[fieldName]; ok {
		update(c.store, result, vars)
	}
	// only the entities inside a mutation result are worth keeping
	for key := range c.store.records {
		if strings.HasPrefix(key, mutationKey+".") {
			delete(c.store.records, key)
		}
	}
}

const mutationKey = "Mutation"

// InspectFields is Store.InspectFields under the cache lock.
func (c *Cache) InspectFields(entityKey string) []FieldInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.InspectFields(entityKey)
}

// ReadFragment is Store.ReadFragment under the cache lock.
func (c *Cache) ReadFragment(typename string, id any, fields ...string) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ReadFragment(typename, id, fields...)
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = newStore(c.cfg.Keys)
}
