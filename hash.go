package probemap

import (
	"hash/maphash"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Hasher is implemented by key types that supply their own hash.
// Keys that are == must return the same Hash, and a key's Hash must
// not change while the key is stored in a Map.
type Hasher interface {
	Hash() uint64
}

type hashFunc[K comparable] func(k K) uint64

var hasherType = reflect.TypeOf((*Hasher)(nil)).Elem()

// newHashFunc picks the single hashing operation used for every key of type K.
// The choice is made once per Map based on the static key type.
func newHashFunc[K comparable](seed maphash.Seed) hashFunc[K] {
	typ := reflect.TypeOf((*K)(nil)).Elem()
	if typ.Implements(hasherType) {
		return func(k K) uint64 {
			return any(k).(Hasher).Hash()
		}
	}

	switch typ.Kind() {
	case reflect.String:
		return func(k K) uint64 {
			return hashString(*(*string)(unsafe.Pointer(&k)))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		switch typ.Size() {
		case 8:
			return func(k K) uint64 {
				return mix64(*(*uint64)(unsafe.Pointer(&k)))
			}
		case 4:
			return func(k K) uint64 {
				return mix64(uint64(*(*uint32)(unsafe.Pointer(&k))))
			}
		case 2:
			return func(k K) uint64 {
				return mix64(uint64(*(*uint16)(unsafe.Pointer(&k))))
			}
		case 1:
			return func(k K) uint64 {
				return mix64(uint64(*(*uint8)(unsafe.Pointer(&k))))
			}
		}
	}

	// Interfaces, structs, arrays, floats, pointers and the rest.
	// Like the builtin map, this panics if an interface key holds
	// a non-comparable dynamic type.
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

func hashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// mix64 is the murmur3 64-bit finalizer; it spreads sequential
// integers across slots.
func mix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// nillable reports whether the zero value of K is a nil reference,
// in which case that value is the null key.
func nillable[K comparable]() bool {
	switch reflect.TypeOf((*K)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
