package randid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source supplies uniformly distributed 32-bit values.
type Source interface {
	Uint32() uint32
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() uint32

func (f SourceFunc) Uint32() uint32 {
	return f()
}

// Runtime draws from the math/rand/v2 top-level generator, which is seeded by
// the runtime and safe for concurrent use.
var Runtime Source = SourceFunc(rand.Uint32)

// Crypto draws from crypto/rand. It panics if the operating system cannot
// supply random bytes; an ID generator must not fall back to weaker entropy.
var Crypto Source = SourceFunc(cryptoUint32)

func cryptoUint32() uint32 {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("randid: crypto source unavailable: %v", err))
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Seeded is a deterministic Source. The same seed always yields the same
// sequence.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a deterministic Source seeded with seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *Seeded) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint32()
}

// Sequence returns a Source that replays values in order and wraps around
// once exhausted. It is intended for fixtures. It panics if values is empty.
func Sequence(values ...uint32) Source {
	if len(values) == 0 {
		panic("randid: Sequence requires at least one value")
	}

	var (
		mu sync.Mutex
		i  int
	)
	return SourceFunc(func() uint32 {
		mu.Lock()
		defer mu.Unlock()
		v := values[i%len(values)]
		i++
		return v
	})
}

// ParseSource resolves a source name. seed is only used by "seeded".
func ParseSource(name string, seed uint64) (Source, error) {
	switch name {
	case "", "runtime":
		return Runtime, nil
	case "crypto":
		return Crypto, nil
	case "seeded":
		return NewSeeded(seed), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}
