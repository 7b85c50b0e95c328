package formstate

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHasher is a streaming hash: Update any number of times, then Digest
// once to obtain a fixed-width hex string.
type ContentHasher interface {
	Update(chunk string)
	Digest() string
}

// HasherFactory creates a fresh ContentHasher per fingerprint.
type HasherFactory func() ContentHasher

// NewContentHasher returns the default 64-bit xxHash based hasher.
func NewContentHasher() ContentHasher {
	return &xxContentHasher{digest: xxhash.New()}
}

type xxContentHasher struct {
	digest *xxhash.Digest
}

func (h *xxContentHasher) Update(chunk string) {
	_, _ = h.digest.WriteString(chunk)
}

func (h *xxContentHasher) Digest() string {
	return fmt.Sprintf("%016x", h.digest.Sum64())
}

// WithHasherFactory replaces the hasher used by Store.Hash and snapshot
// hashing.
func WithHasherFactory(factory HasherFactory) Option {
	return func(cfg *storeConfig) {
		cfg.hasher = factory
	}
}

// GetHash fingerprints a serialized mapping with the default hasher. It
// returns "" for a nil mapping. Entries are fed as "key:<json>" in the
// mapping's own order; no re-sorting by key happens.
//
// Records JSON cannot encode (NaN, functions, channels) are rendered by
// structure instead: pointers are followed, and functions and channels
// contribute only their type, so the digest never depends on addresses.
func GetHash(m *Serialized) string {
	return GetHashWith(nil, m)
}

// GetHashWith is GetHash using hashers produced by factory.
func GetHashWith(factory HasherFactory, m *Serialized) string {
	if m == nil {
		return ""
	}
	if factory == nil {
		factory = NewContentHasher
	}
	hasher := factory()
	m.Range(func(key string, rec Record) bool {
		encoded, err := encodeCanonical(rec)
		if err != nil {
			encoded = stableText(reflect.ValueOf(map[string]any(rec)), 0)
		}
		hasher.Update(key + ":" + encoded)
		return true
	})
	return hasher.Digest()
}

const maxStableDepth = 32

// stableText renders v without memory addresses. Cycles are cut at
// maxStableDepth.
func stableText(v reflect.Value, depth int) string {
	if depth > maxStableDepth {
		return "<deep>"
	}
	if !v.IsValid() {
		return "null"
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return "null"
		}
		return stableText(v.Elem(), depth+1)
	case reflect.Map:
		parts := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			parts = append(parts, stableText(iter.Key(), depth+1)+":"+stableText(iter.Value(), depth+1))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ",") + "}"
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "null"
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = stableText(v.Index(i), depth+1)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Struct:
		typ := v.Type()
		parts := make([]string, 0, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			if typ.Field(i).IsExported() {
				parts = append(parts, typ.Field(i).Name+":"+stableText(v.Field(i), depth+1))
			}
		}
		return typ.String() + "{" + strings.Join(parts, ",") + "}"
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "<" + v.Type().String() + ">"
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	}
	return "<" + v.Type().String() + ">"
}
