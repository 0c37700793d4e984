package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/autoid/internal/stats"
	"github.com/hay-kot/autoid/pkg/randid"
)

// ShapeCheck verifies generated IDs have the expected length and alphabet.
type ShapeCheck struct {
	gen     *randid.Generator
	samples int
}

// NewShapeCheck creates a check that inspects samples AutoIDs.
func NewShapeCheck(gen *randid.Generator, samples int) *ShapeCheck {
	return &ShapeCheck{gen: gen, samples: samples}
}

func (c *ShapeCheck) Name() string {
	return "ID Shape"
}

func (c *ShapeCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	var badLength, badChars int
	for i := 0; i < c.samples; i++ {
		id := c.gen.AutoID()
		if len(id) != randid.AutoIDLength {
			badLength++
		}
		if !randid.InAlphabet(id) {
			badChars++
		}
	}

	result.Items = append(result.Items,
		countItem("Length", badLength, c.samples, fmt.Sprintf("%d chars", randid.AutoIDLength)),
		countItem("Alphabet", badChars, c.samples, fmt.Sprintf("%d symbols", len(randid.Alphabet))),
	)

	return result
}

// CollisionCheck verifies a batch of AutoIDs contains no duplicates.
type CollisionCheck struct {
	gen     *randid.Generator
	samples int
}

// NewCollisionCheck creates a check that generates samples AutoIDs.
func NewCollisionCheck(gen *randid.Generator, samples int) *CollisionCheck {
	return &CollisionCheck{gen: gen, samples: samples}
}

func (c *CollisionCheck) Name() string {
	return "Collisions"
}

func (c *CollisionCheck) Run(ctx context.Context) Result {
	seen := make(map[string]struct{}, c.samples)
	dups := 0
	for i := 0; i < c.samples; i++ {
		id := c.gen.AutoID()
		if _, ok := seen[id]; ok {
			dups++
			continue
		}
		seen[id] = struct{}{}
	}

	item := CheckItem{Label: "Unique IDs", Status: StatusPass, Detail: fmt.Sprintf("%d generated", c.samples)}
	if dups > 0 {
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("%d duplicates in %d ids", dups, c.samples)
	}

	return Result{Name: c.Name(), Items: []CheckItem{item}}
}

// UniformityCheck runs chi-squared tests on doubles and on alphabet indexes.
type UniformityCheck struct {
	gen     *randid.Generator
	samples int
	buckets int
}

// NewUniformityCheck creates a check drawing samples values into buckets.
func NewUniformityCheck(gen *randid.Generator, samples, buckets int) *UniformityCheck {
	return &UniformityCheck{gen: gen, samples: samples, buckets: buckets}
}

func (c *UniformityCheck) Name() string {
	return "Uniformity"
}

func (c *UniformityCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	values := make([]float64, c.samples)
	outOfRange := 0
	for i := range values {
		v := c.gen.Float64()
		if v < 0 || v >= 1 {
			outOfRange++
		}
		values[i] = v
	}

	result.Items = append(result.Items, countItem("Range [0,1)", outOfRange, c.samples, fmt.Sprintf("%d doubles", c.samples)))
	result.Items = append(result.Items, fitItem("Doubles", stats.Uniformity(values, c.buckets)))

	counts := make([]int, len(randid.Alphabet))
	for i := 0; i < c.samples; i++ {
		counts[c.gen.Uint32n(uint32(len(counts)))]++
	}
	fit := stats.UniformityResult{
		Buckets:   len(counts),
		Samples:   c.samples,
		Statistic: stats.ChiSquared(counts),
		Critical:  stats.CriticalValue(len(counts) - 1),
	}
	fit.Uniform = fit.Statistic <= fit.Critical
	result.Items = append(result.Items, fitItem("Alphabet indexes", fit))

	return result
}

func countItem(label string, bad, total int, ok string) CheckItem {
	if bad == 0 {
		return CheckItem{Label: label, Status: StatusPass, Detail: ok}
	}
	return CheckItem{Label: label, Status: StatusFail, Detail: fmt.Sprintf("%d of %d invalid", bad, total)}
}

func fitItem(label string, fit stats.UniformityResult) CheckItem {
	detail := fmt.Sprintf("chi2=%.2f critical=%.2f buckets=%d", fit.Statistic, fit.Critical, fit.Buckets)
	if fit.Uniform {
		return CheckItem{Label: label, Status: StatusPass, Detail: detail}
	}
	return CheckItem{Label: label, Status: StatusFail, Detail: detail}
}
