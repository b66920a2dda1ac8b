// Package probemap provides Map, a hash table using open addressing
// with linear probing and tombstone deletion.
//
// Keys are hashed once per operation (see Hasher) and compared with ==.
// If K is a pointer, interface, chan or unsafe pointer type, the nil key
// is never stored: Put ignores it and Get and Remove never find it.
//
// A Map is not safe for concurrent use. Callers that share one across
// goroutines must guard every operation with a single lock.
package probemap

import (
	"fmt"
	"hash/maphash"
	"math"

	"go.uber.org/zap"
)

/*
Slots cycle through three states:

	empty -> occupied -> tombstone -> occupied -> tombstone ...

empty is only ever the initial state. A removed entry leaves a tombstone
so probe runs that passed through it stay intact for later lookups.
Tombstones are reused by later inserts along the same run, and dropped
wholesale when the table grows.

Growth happens synchronously at the end of the Put that brings the
element count up to the threshold, so after any Put returns:

	elemCount < threshold <= len(slots)

and at least one slot is not occupied. Probing is still bounded by
len(slots) because tombstones alone can fill every free slot.
*/

type slotState uint8

const (
	empty slotState = iota
	occupied
	tombstone
)

type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}

// Map maps keys to values. The zero Map is not usable; call New.
type Map[K comparable, V any] struct {
	slots      []slot[K, V]
	elemCount  int
	tombstones int
	threshold  int
	loadFactor float64

	hashFunc hashFunc[K]
	nillable bool
	logger   *zap.Logger

	// stats
	gets    int
	puts    int
	removes int
	probes  int
	grows   int
}

// Stats is a snapshot of a Map's counters. Tombstones is the number
// of tombstoned slots right now; everything else is cumulative.
type Stats struct {
	Gets       int
	Puts       int
	Removes    int
	Probes     int
	Grows      int
	Tombstones int
}

// New returns an empty Map. Without options the map starts with
// DefaultCapacity slots and DefaultLoadFactor. It returns an error
// wrapping ErrInvalidCapacity or ErrInvalidLoadFactor for bad options.
func New[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{
		slots:      make([]slot[K, V], c.capacity),
		threshold:  calcThreshold(c.capacity, c.loadFactor),
		loadFactor: c.loadFactor,
		hashFunc:   newHashFunc[K](maphash.MakeSeed()),
		nillable:   nillable[K](),
		logger:     c.logger,
	}, nil
}

// MustNew is like New but panics if the options are invalid.
func MustNew[K comparable, V any](opts ...Option) *Map[K, V] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Put stores v under k. If k was already present it returns the
// previous value and true; otherwise it returns the zero value and false.
func (m *Map[K, V]) Put(k K, v V) (prev V, ok bool) {
	if m.isNull(k) {
		return prev, false
	}
	m.puts++

	i, found := m.find(m.slots, k)
	if found {
		s := &m.slots[i]
		prev, s.value = s.value, v
		return prev, true
	}
	if i < 0 {
		// only reachable if elemCount reached len(slots) without a grow
		panic(fmt.Sprintf("probemap: no free slot: len %d, elemCount %d, threshold %d",
			len(m.slots), m.elemCount, m.threshold))
	}

	if m.slots[i].state == tombstone {
		m.tombstones--
	}
	m.slots[i] = slot[K, V]{state: occupied, key: k, value: v}
	m.elemCount++

	// grow strictly after the insert
	if m.elemCount >= m.threshold {
		m.grow()
	}
	return prev, false
}

// Get returns the value stored under k and whether it was present.
func (m *Map[K, V]) Get(k K) (v V, ok bool) {
	if m.isNull(k) {
		return v, false
	}
	m.gets++

	i, found := m.find(m.slots, k)
	if !found {
		return v, false
	}
	return m.slots[i].value, true
}

// Remove deletes k, returning the removed value and true if k was
// present. The slot is tombstoned; capacity never shrinks.
func (m *Map[K, V]) Remove(k K) (v V, ok bool) {
	if m.isNull(k) {
		return v, false
	}
	m.removes++

	i, found := m.find(m.slots, k)
	if !found {
		return v, false
	}
	v = m.slots[i].value
	// clear key and value so they can be collected
	m.slots[i] = slot[K, V]{state: tombstone}
	m.tombstones++
	m.elemCount--
	return v, true
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	if debug {
		var count int
		for i := range m.slots {
			if m.slots[i].state == occupied {
				count++
			}
		}
		if count != m.elemCount {
			panic(fmt.Sprintf("probemap: elemCount %d does not match occupied count %d", m.elemCount, count))
		}
	}
	return m.elemCount
}

// Cap returns the current number of slots.
func (m *Map[K, V]) Cap() int {
	return len(m.slots)
}

func (m *Map[K, V]) Stats() Stats {
	return Stats{
		Gets:       m.gets,
		Puts:       m.puts,
		Removes:    m.removes,
		Probes:     m.probes,
		Grows:      m.grows,
		Tombstones: m.tombstones,
	}
}

// find linearly probes slots for k, starting at the slot k hashes to.
// If k is present it returns k's index and true. Otherwise it returns
// the index where k should be inserted and false: the first tombstone
// seen before reaching an empty slot, or that empty slot. If the walk
// wraps all the way around without an empty slot, the first tombstone
// seen is returned, or -1 if there was none.
func (m *Map[K, V]) find(slots []slot[K, V], k K) (int, bool) {
	capacity := len(slots)
	i := int(m.hashFunc(k) % uint64(capacity))
	reuse := -1
	for n := 0; n < capacity; n++ {
		m.probes++
		s := &slots[i]
		switch s.state {
		case occupied:
			if s.key == k {
				return i, true
			}
		case tombstone:
			if reuse < 0 {
				reuse = i
			}
		case empty:
			if reuse >= 0 {
				return reuse, false
			}
			return i, false
		}
		i++
		if i == capacity {
			i = 0
		}
	}
	if debug {
		m.logger.Debug("probemap: probed every slot",
			zap.Int("capacity", capacity),
			zap.Int("reuse", reuse))
	}
	return reuse, false
}

// grow doubles the slot count until the threshold is above elemCount,
// then reinserts every live entry into the new slots. Tombstones are
// not carried over. The new slots replace the old in one assignment.
func (m *Map[K, V]) grow() {
	oldCap := len(m.slots)
	newCap := oldCap
	for {
		if newCap > math.MaxInt/2 {
			panic("probemap: capacity overflow")
		}
		newCap *= 2
		if calcThreshold(newCap, m.loadFactor) > m.elemCount {
			break
		}
	}

	slots := make([]slot[K, V], newCap)
	var moved int
	for i := range m.slots {
		if m.slots[i].state != occupied {
			continue
		}
		j, found := m.find(slots, m.slots[i].key)
		if debug && (found || j < 0) {
			panic(fmt.Sprintf("probemap: grow: bad insert position %d (found %v) for live entry", j, found))
		}
		slots[j] = m.slots[i]
		moved++
	}
	if debug && moved != m.elemCount {
		panic(fmt.Sprintf("probemap: grow moved %d entries, want %d", moved, m.elemCount))
	}

	m.logger.Debug("probemap grow",
		zap.Int("oldCapacity", oldCap),
		zap.Int("newCapacity", newCap),
		zap.Int("len", m.elemCount),
		zap.Int("droppedTombstones", m.tombstones))

	m.slots = slots
	m.threshold = calcThreshold(newCap, m.loadFactor)
	m.tombstones = 0
	m.grows++
}

func (m *Map[K, V]) isNull(k K) bool {
	var zero K
	return m.nillable && k == zero
}

// calcThreshold returns floor(loadFactor * capacity), the element
// count that triggers growth.
func calcThreshold(capacity int, loadFactor float64) int {
	return int(loadFactor * float64(capacity))
}

const debug = false
