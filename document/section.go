/*
Package document implements an ordered tree of named sections used as the
common output of the asset decoders.

A Section maps string keys to scalar values or to nested sections. Keys keep
their insertion order, which every encoder preserves. Scalars are one of
int64, uint64, float32, float64, bool or string.
*/
package document

import (
	"fmt"
	"math"
)

// Section is an ordered mapping of keys to values.
type Section struct {
	keys   []string
	values map[string]interface{}
}

// New returns an empty section.
func New() *Section {
	return &Section{
		values: make(map[string]interface{}),
	}
}

func normalize(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case *Section, int64, uint64, float32, float64, bool, string:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	default:
		return nil, fmt.Errorf("document: unsupported value type %T", v)
	}
}

// Set stores v under key. Setting an existing key replaces its value but
// keeps its original position. It panics if v is not a supported type.
func (s *Section) Set(key string, v interface{}) {
	n, err := normalize(v)
	if err != nil {
		panic(err)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = n
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Section returns the nested section stored under key, creating it if
// missing. It panics if key holds a scalar.
func (s *Section) Section(key string) *Section {
	if v, ok := s.values[key]; ok {
		child, ok := v.(*Section)
		if !ok {
			panic(fmt.Sprintf("document: key %q is not a section", key))
		}
		return child
	}
	child := New()
	s.Set(key, child)
	return child
}

// Lookup returns the nested section stored under key without creating it.
func (s *Section) Lookup(key string) (*Section, bool) {
	child, ok := s.values[key].(*Section)
	return child, ok
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}

// Float returns the value under key as a float64 if it is numeric.
func (s *Section) Float(key string) (float64, bool) {
	switch x := s.values[key].(type) {
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Int returns the value under key as an int64 if it is an integer, or a
// float with no fractional part.
func (s *Section) Int(key string) (int64, bool) {
	switch x := s.values[key].(type) {
	case int64:
		return x, true
	case uint64:
		return int64(x), true
	case float32, float64:
		f, _ := s.Float(key)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
	}
	return 0, false
}

// Uint returns the value under key as a uint64 if it is an integer.
func (s *Section) Uint(key string) (uint64, bool) {
	switch x := s.values[key].(type) {
	case uint64:
		return x, true
	case int64:
		return uint64(x), true
	}
	if i, ok := s.Int(key); ok {
		return uint64(i), true
	}
	return 0, false
}

// String returns the value under key if it is a string.
func (s *Section) String(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}
