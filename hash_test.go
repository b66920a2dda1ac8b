package probemap

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/require"
)

type label string

type point struct {
	x, y int
}

type fixedKey struct {
	id int
}

func (fixedKey) Hash() uint64 { return 7 }

func TestNewHashFunc(t *testing.T) {
	seed := maphash.MakeSeed()

	t.Run("string uses xxhash", func(t *testing.T) {
		h := newHashFunc[string](seed)
		require.Equal(t, hashString("hello"), h("hello"))
		require.Equal(t, h("hello"), h("hel"+"lo"))
		require.NotEqual(t, h("hello"), h("world"))
	})

	t.Run("named string type", func(t *testing.T) {
		h := newHashFunc[label](seed)
		require.Equal(t, hashString("abc"), h(label("abc")))
	})

	t.Run("integers are mixed", func(t *testing.T) {
		h64 := newHashFunc[int64](seed)
		h8 := newHashFunc[uint8](seed)
		require.Equal(t, mix64(5), h64(5))
		require.Equal(t, mix64(5), h8(5))

		// sequential keys should not land in sequential slots
		seen := make(map[uint64]bool)
		for i := int64(0); i < 100; i++ {
			seen[h64(i)%16] = true
		}
		require.Greater(t, len(seen), 8)
	})

	t.Run("negative ints", func(t *testing.T) {
		h := newHashFunc[int32](seed)
		require.Equal(t, mix64(uint64(uint32(0xffffffff))), h(-1))
	})

	t.Run("comparable structs", func(t *testing.T) {
		h := newHashFunc[point](seed)
		require.Equal(t, h(point{1, 2}), h(point{1, 2}))
		require.Equal(t, maphash.Comparable(seed, point{3, 4}), h(point{3, 4}))
	})

	t.Run("Hasher keys", func(t *testing.T) {
		h := newHashFunc[fixedKey](seed)
		require.Equal(t, uint64(7), h(fixedKey{1}))
		require.Equal(t, uint64(7), h(fixedKey{2}))
	})

	t.Run("interface keys", func(t *testing.T) {
		h := newHashFunc[any](seed)
		require.Equal(t, h("x"), h("x"))
		require.Equal(t, h(point{1, 1}), h(point{1, 1}))
	})
}

func TestMap_HasherKeys(t *testing.T) {
	m := MustNew[fixedKey, string]()

	m.Put(fixedKey{1}, "one")
	m.Put(fixedKey{2}, "two")
	m.Put(fixedKey{3}, "three")

	// everything starts at slot 7 and runs on, wrapping around
	for i, want := range map[int]int{7: 1, 8: 2, 9: 3} {
		require.Equal(t, occupied, m.slots[i].state)
		require.Equal(t, fixedKey{want}, m.slots[i].key)
	}

	m.Remove(fixedKey{2})
	v, ok := m.Get(fixedKey{3})
	require.True(t, ok)
	require.Equal(t, "three", v)
	checkInvariants(t, m)
}

func TestNillable(t *testing.T) {
	require.True(t, nillable[*int]())
	require.True(t, nillable[any]())
	require.True(t, nillable[chan int]())
	require.True(t, nillable[Hasher]())
	require.False(t, nillable[int]())
	require.False(t, nillable[string]())
	require.False(t, nillable[point]())
}
