package randid

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/hay-kot/autoid/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 62)
	assert.True(t, InAlphabet(Alphabet))

	seen := make(map[rune]bool, len(Alphabet))
	for _, c := range Alphabet {
		assert.False(t, seen[c], "duplicate %q in alphabet", c)
		seen[c] = true
	}
}

func TestFloat64_Range(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestGenerator_Float64_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		want  float64
	}{
		{"zero maps to zero", 0, 0},
		{"half", 1 << 31, 0.5},
		{"max stays below one", math.MaxUint32, float64(math.MaxUint32) / 4294967296.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Sequence(tt.value))
			got := g.Float64()
			assert.Equal(t, tt.want, got)
			assert.Less(t, got, 1.0)
		})
	}
}

func TestFloat64_Uniformity(t *testing.T) {
	g := New(NewSeeded(1))

	samples := make([]float64, 100_000)
	for i := range samples {
		samples[i] = g.Float64()
	}

	res := stats.Uniformity(samples, 10)
	assert.True(t, res.Uniform, "chi-squared %.2f exceeds critical %.2f", res.Statistic, res.Critical)
}

func TestAutoID_Shape(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := AutoID()
		require.Len(t, id, AutoIDLength)
		require.True(t, InAlphabet(id), "unexpected character in %q", id)
		require.True(t, IsAutoID(id))
	}
}

func TestAutoID_NoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10_000)
	for i := 0; i < 10_000; i++ {
		id := AutoID()
		_, dup := seen[id]
		require.False(t, dup, "collision on %q after %d ids", id, i)
		seen[id] = struct{}{}
	}
}

func TestGenerator_AutoID_Fixture(t *testing.T) {
	values := make([]uint32, AutoIDLength)
	for i := range values {
		values[i] = uint32(len(Alphabet) + i)
	}

	g := New(Sequence(values...))
	assert.Equal(t, "ABCDEFGHIJKLMNOPQRST", g.AutoID())
}

func TestGenerator_AutoID_Seeded(t *testing.T) {
	a := New(NewSeeded(42))
	b := New(NewSeeded(42))
	c := New(NewSeeded(43))

	for i := 0; i < 5; i++ {
		idA, idB := a.AutoID(), b.AutoID()
		assert.Equal(t, idA, idB)
		assert.NotEqual(t, idA, c.AutoID())
		assert.True(t, IsAutoID(idA))
	}
}

func TestGenerator_AutoID_SeededFixture(t *testing.T) {
	g := New(NewSeeded(42))

	want := []string{
		"BuKdbWVmIYPli1RXWkIG",
		"FHpiIDIdAFxTdI8AIOFa",
		"vUW7CYh8ARpkIg9BdouE",
	}
	for _, id := range want {
		assert.Equal(t, id, g.AutoID())
	}
}

func TestGenerator_Uint32n(t *testing.T) {
	tests := []struct {
		name   string
		values []uint32
		n      uint32
		want   uint32
	}{
		{"in range", []uint32{10}, 62, 10},
		{"wraps modulo n", []uint32{62 + 7}, 62, 7},
		{"rejects biased low draws", []uint32{0, 1, 2, 3, 62 + 25}, 62, 25},
		{"accepts threshold", []uint32{4}, 62, 4},
		{"power of two never rejects", []uint32{0}, 64, 0},
		{"max value", []uint32{math.MaxUint32}, 62, math.MaxUint32 % 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Sequence(tt.values...))
			assert.Equal(t, tt.want, g.Uint32n(tt.n))
		})
	}
}

func TestGenerator_Uint32n_ZeroPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil).Uint32n(0) })
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"short", 6, 6},
		{"long", 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Generate(tt.length)
			assert.Len(t, id, tt.want)
			assert.True(t, InAlphabet(id))
		})
	}
}

func TestInAlphabet(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"abcXYZ019", true},
		{"abc-def", false},
		{"with space", false},
		{"ümlaut", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, InAlphabet(tt.input))
		})
	}
}

func TestIsAutoID(t *testing.T) {
	assert.True(t, IsAutoID("ABCDEFGHIJKLMNOPQRST"))
	assert.False(t, IsAutoID("ABCDEFGHIJKLMNOPQRS"))
	assert.False(t, IsAutoID("ABCDEFGHIJKLMNOPQRS_"))
	assert.False(t, IsAutoID(strings.Repeat("a", 21)))
}

func TestGenerator_Concurrent(t *testing.T) {
	sources := map[string]Source{
		"runtime": Runtime,
		"seeded":  NewSeeded(7),
		"crypto":  Crypto,
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			g := New(src)

			var (
				wg  sync.WaitGroup
				mu  sync.Mutex
				ids = make(map[string]struct{})
			)

			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 500; i++ {
						id := g.AutoID()
						f := g.Float64()

						mu.Lock()
						ids[id] = struct{}{}
						mu.Unlock()

						if !IsAutoID(id) || f < 0 || f >= 1 {
							t.Errorf("bad output id=%q f=%v", id, f)
						}
					}
				}()
			}
			wg.Wait()

			assert.Len(t, ids, 8*500)
		})
	}
}
