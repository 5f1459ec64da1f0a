package compile

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/field"
)

// Key identifies a compiled model by its topology hash.
type Key uint64

// TopologyKey hashes everything the symbolic derivation depends on:
// state energies and angular momenta, transition endpoints, rates and
// dipoles, and for each coupling its transition, polarization and
// wavevector. Runtime
// parameters (detunings, Rabi frequencies) are deliberately excluded —
// they vary per evaluation without changing the compiled structure.
func TopologyKey(m *atom.Model, couplings []field.Coupling) Key {
	h := fnv.New64a()
	var buf [8]byte

	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	f64 := func(v float64) { u64(math.Float64bits(v)) }

	u64(uint64(m.NumStates()))
	for i := 0; i < m.NumStates(); i++ {
		s := m.State(i)
		f64(s.Energy)
		f64(s.F)
		f64(s.M)
	}

	u64(uint64(m.NumTransitions()))
	for k := 0; k < m.NumTransitions(); k++ {
		t := m.Transition(k)
		u64(uint64(t.Upper))
		u64(uint64(t.Lower))
		f64(t.Rate)
		f64(t.Dipole)
	}

	u64(uint64(len(couplings)))
	for _, c := range couplings {
		u64(uint64(c.Field))
		u64(uint64(c.Transition))
		u64(uint64(int64(c.Polarization)))
		f64(c.Wavevector)
	}

	return Key(h.Sum64())
}

// Cache memoises compiled models by topology key. The zero value is
// ready to use. All methods are safe for concurrent callers; a compile
// already in flight for one key does not block lookups of other keys.
type Cache struct {
	mu     sync.Mutex
	models map[Key]*Model
}

// Get returns the compiled model for the given atom and couplings,
// assembling and compiling on a cache miss. Errors are returned to the
// caller and never cached.
func (c *Cache) Get(m *atom.Model, couplings []field.Coupling) (*Model, error) {
	key := TopologyKey(m, couplings)

	c.mu.Lock()
	if md, ok := c.models[key]; ok {
		c.mu.Unlock()
		return md, nil
	}
	c.mu.Unlock()

	sys, err := bloch.Assemble(m, couplings)
	if err != nil {
		return nil, err
	}
	md, err := Compile(sys)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.models == nil {
		c.models = make(map[Key]*Model)
	}
	// A concurrent compile of the same key may have landed first; keep
	// the existing entry so callers share one model.
	if prior, ok := c.models[key]; ok {
		md = prior
	} else {
		c.models[key] = md
	}
	c.mu.Unlock()

	return md, nil
}

// Invalidate drops the cached model for the given topology, if any.
func (c *Cache) Invalidate(m *atom.Model, couplings []field.Coupling) {
	key := TopologyKey(m, couplings)

	c.mu.Lock()
	delete(c.models, key)
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.models = nil
	c.mu.Unlock()
}

// Len reports the number of cached models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.models)
}
