package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// CodePrefix leading part of every order code
const CodePrefix = "ORD-"

// codeTimeLayout yyMMddHHmmss
const codeTimeLayout = "060102150405"

// CodeGenerator domain service producing unique order codes of the shape
// ORD-{yyMMddHHmmss UTC}-{100..999}.
// It queries the repository but never saves.
type CodeGenerator struct {
	orders      Repository
	now         func() time.Time
	random      func() int
	maxAttempts int
}

// CodeGeneratorOption customizes a CodeGenerator
type CodeGeneratorOption func(*CodeGenerator)

// WithClock replaces the clock
func WithClock(now func() time.Time) CodeGeneratorOption {
	return func(g *CodeGenerator) { g.now = now }
}

// WithRandom replaces the suffix source; values outside 100..999 are folded into it
func WithRandom(random func() int) CodeGeneratorOption {
	return func(g *CodeGenerator) { g.random = random }
}

// WithMaxAttempts bounds the regeneration loop
func WithMaxAttempts(n int) CodeGeneratorOption {
	return func(g *CodeGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewCodeGenerator creates the generator. Defaults: wall clock, math/rand, 10 attempts.
func NewCodeGenerator(orders Repository, opts ...CodeGeneratorOption) *CodeGenerator {
	g := &CodeGenerator{
		orders:      orders,
		now:         time.Now,
		random:      func() int { return 100 + rand.IntN(900) },
		maxAttempts: 10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a code not used by any order visible in ctx.
// Run it inside the checkout transaction so the check and the insert share it.
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := FormatCode(g.now(), g.random())
		exists, err := g.orders.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check order code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", NewCodeGenerationExhaustedError(g.maxAttempts)
}

// FormatCode builds a code from a timestamp and a suffix in 100..999
func FormatCode(t time.Time, suffix int) string {
	if suffix < 100 || suffix > 999 {
		suffix = 100 + ((suffix%900)+900)%900
	}
	return fmt.Sprintf("%s%s-%03d", CodePrefix, t.UTC().Format(codeTimeLayout), suffix)
}
