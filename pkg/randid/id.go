// Package randid provides random ID and uniform value generation utilities.
package randid

const (
	// Alphabet is the character set used for generated IDs. Order matters: a
	// known index sequence always maps to the same string.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// AutoIDLength is the length of IDs returned by AutoID.
	AutoIDLength = 20

	// uint32Range is 2^32, the number of distinct values a Source can return.
	uint32Range = 1 << 32
)

var std = New(Runtime)

// Generator derives uniform values and IDs from a Source. A Generator is safe
// for concurrent use when its Source is.
type Generator struct {
	src Source
}

// New returns a Generator backed by src. A nil src falls back to Runtime.
func New(src Source) *Generator {
	if src == nil {
		src = Runtime
	}
	return &Generator{src: src}
}

// Float64 returns a uniformly distributed value in [0.0, 1.0) with 32 bits of
// entropy.
func (g *Generator) Float64() float64 {
	return float64(g.src.Uint32()) / uint32Range
}

// Uint32n returns a uniformly distributed value in [0, n). It panics if n is 0.
func (g *Generator) Uint32n(n uint32) uint32 {
	if n == 0 {
		panic("randid: Uint32n called with n == 0")
	}

	// Draws below 2^32 mod n would over-represent the low indexes.
	threshold := -n % n
	for {
		v := g.src.Uint32()
		if v >= threshold {
			return v % n
		}
	}
}

// Generate creates a random alphanumeric ID of the specified length.
func (g *Generator) Generate(length int) string {
	if length <= 0 {
		return ""
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = Alphabet[g.Uint32n(uint32(len(Alphabet)))]
	}
	return string(b)
}

// AutoID returns an AutoIDLength character ID suitable for use as a document
// or record key. IDs are best effort unique, not collision proof.
func (g *Generator) AutoID() string {
	return g.Generate(AutoIDLength)
}

// Float64 returns a uniformly distributed value in [0.0, 1.0) using the
// runtime source.
func Float64() float64 {
	return std.Float64()
}

// Generate creates a random alphanumeric ID of the specified length using the
// runtime source.
func Generate(length int) string {
	return std.Generate(length)
}

// AutoID returns a 20 character ID using the runtime source.
func AutoID() string {
	return std.AutoID()
}

// IsAutoID reports whether s has the shape of an AutoID.
func IsAutoID(s string) bool {
	return len(s) == AutoIDLength && InAlphabet(s)
}

// InAlphabet reports whether every byte of s is part of Alphabet.
func InAlphabet(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
