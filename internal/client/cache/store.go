package cache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RootKey is the record holding root Query fields.
const RootKey = "Query"

// Link points at another record by key.
type Link string

// FieldInfo describes one cached field of a record.
type FieldInfo struct {
	FieldKey  string
	FieldName string
	Arguments map[string]any
}

type record struct {
	order  []string
	fields map[string]any
	args   map[string]map[string]any
}

func newRecord() *record {
	return &record{
		fields: make(map[string]any),
		args:   make(map[string]map[string]any),
	}
}

func (r *record) set(fieldKey string, args map[string]any, v any) {
	if _, exists := r.fields[fieldKey]; !exists {
		r.order = append(r.order, fieldKey)
	}
	r.fields[fieldKey] = v
	if len(args) > 0 {
		r.args[fieldKey] = args
	}
}

func (r *record) remove(fieldKey string) {
	if _, exists := r.fields[fieldKey]; !exists {
		return
	}
	delete(r.fields, fieldKey)
	delete(r.args, fieldKey)
	for i, k := range r.order {
		if k == fieldKey {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// KeyFunc returns the entity key for an object of one typename, or "" to
// embed the object in its parent instead of normalizing it.
type KeyFunc func(obj map[string]any) string

// Store is the normalized record table. It is not safe for concurrent use;
// Cache serializes access and hands a Store to resolvers and updaters.
type Store struct {
	records map[string]*record
	keys    map[string]KeyFunc
}

func newStore(keys map[string]KeyFunc) *Store {
	s := &Store{
		records: make(map[string]*record),
		keys:    keys,
	}
	s.records[RootKey] = newRecord()
	return s
}

// FieldKey builds the key a field is stored under: the bare name without
// arguments, otherwise name(args) with args as sorted JSON.
func FieldKey(fieldName string, args map[string]any) string {
	if len(args) == 0 {
		return fieldName
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fieldName + "(" + fmt.Sprint(args) + ")"
	}
	return fieldName + "(" + string(b) + ")"
}

// EntityKey is typename:id.
func EntityKey(typename string, id any) string {
	return typename + ":" + formatID(id)
}

func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (s *Store) keyOf(obj map[string]any) string {
	typename, _ := obj["__typename"].(string)
	if typename == "" {
		return ""
	}
	if fn, ok := s.keys[typename]; ok {
		if fn == nil {
			return ""
		}
		return fn(obj)
	}
	id, ok := obj["id"]
	if !ok || id == nil {
		return ""
	}
	return EntityKey(typename, id)
}

// InspectFields lists the fields cached on entityKey in the order they were
// first written.
func (s *Store) InspectFields(entityKey string) []FieldInfo {
	rec, ok := s.records[entityKey]
	if !ok {
		return nil
	}
	out := make([]FieldInfo, 0, len(rec.order))
	for _, key := range rec.order {
		name, _, _ := strings.Cut(key, "(")
		out = append(out, FieldInfo{FieldKey: key, FieldName: name, Arguments: rec.args[key]})
	}
	return out
}

// Resolve returns the raw stored value of one field: a scalar, a Link, or a
// slice of those.
func (s *Store) Resolve(entityKey, fieldKey string) (any, bool) {
	rec, ok := s.records[entityKey]
	if !ok {
		return nil, false
	}
	v, ok := rec.fields[fieldKey]
	return v, ok
}

// Write normalizes value into the store under parentKey.fieldKey.
func (s *Store) Write(parentKey, fieldName string, args map[string]any, value any) {
	fieldKey := FieldKey(fieldName, args)
	v := s.normalize(parentKey+"."+fieldKey, value)
	s.record(parentKey).set(fieldKey, args, v)
}

// Invalidate drops one field. The next read of it is a miss.
func (s *Store) Invalidate(entityKey, fieldKey string) {
	rec, ok := s.records[entityKey]
	if !ok {
		return
	}
	if link, ok := rec.fields[fieldKey].(Link); ok && strings.HasPrefix(string(link), entityKey+".") {
		delete(s.records, string(link))
	}
	rec.remove(fieldKey)
}

// InvalidateEntity drops a whole record. Lists still linking to it read
// as partial.
func (s *Store) InvalidateEntity(entityKey string) {
	if entityKey == RootKey {
		s.records[RootKey] = newRecord()
		return
	}
	delete(s.records, entityKey)
}

// ReadFragment returns the named fields of an entity. It reports false when
// the entity or any of the fields is not cached.
func (s *Store) ReadFragment(typename string, id any, fields ...string) (map[string]any, bool) {
	rec, ok := s.records[EntityKey(typename, id)]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, ok := rec.fields[f]
		if !ok {
			return nil, false
		}
		out[f] = v
	}
	return out, true
}

// WriteFragment overwrites scalar fields of an entity, creating it if needed.
func (s *Store) WriteFragment(typename string, id any, data map[string]any) {
	key := EntityKey(typename, id)
	rec := s.record(key)
	if _, ok := rec.fields["__typename"]; !ok {
		rec.set("__typename", nil, typename)
		rec.set("id", nil, id)
	}
	for f, v := range data {
		rec.set(f, nil, s.normalize(key+"."+f, v))
	}
}

func (s *Store) record(key string) *record {
	rec, ok := s.records[key]
	if !ok {
		rec = newRecord()
		s.records[key] = rec
	}
	return rec
}

// normalize replaces keyed objects with Links, storing them as records.
// Objects without a key become embedded records under path.
func (s *Store) normalize(path string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		key := s.keyOf(t)
		if key == "" {
			key = path
		}
		rec := s.record(key)
		for field, fv := range t {
			rec.set(field, nil, s.normalize(key+"."+field, fv))
		}
		return Link(key)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = s.normalize(path+"."+strconv.Itoa(i), e)
		}
		return out
	default:
		return v
	}
}

// denormalize follows links back into plain maps. complete is false when a
// linked record has gone missing; missing list items are dropped.
func (s *Store) denormalize(v any, depth int) (out any, complete bool) {
	if depth > maxDepth {
		return nil, false
	}
	switch t := v.(type) {
	case Link:
		rec, ok := s.records[string(t)]
		if !ok {
			return nil, false
		}
		obj := make(map[string]any, len(rec.fields))
		complete = true
		for _, field := range rec.order {
			fv, ok := s.denormalize(rec.fields[field], depth+1)
			if !ok {
				complete = false
			}
			obj[field] = fv
		}
		return obj, complete
	case []any:
		list := make([]any, 0, len(t))
		complete = true
		for _, e := range t {
			ev, ok := s.denormalize(e, depth+1)
			if !ok {
				complete = false
				if _, isLink := e.(Link); isLink {
					continue
				}
			}
			list = append(list, ev)
		}
		return list, complete
	default:
		return v, true
	}
}

const maxDepth = 32
