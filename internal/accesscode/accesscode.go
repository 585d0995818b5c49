// Package accesscode generates the short human-enterable codes that authenticate
// non-owner actions on rooms (6 digits) and meetings (12 characters of A-Z0-9).
package accesscode

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

type Kind int

const (
	Room Kind = iota
	Meeting
)

func (k Kind) String() string {
	switch k {
	case Room:
		return "room"
	case Meeting:
		return "meeting"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	RoomCodeMin       = 100000
	RoomCodeMax       = 999999
	MeetingCodeLength = 12
	MeetingAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultMaxAttempts = 10
)

var (
	// ErrCodeSpaceExhausted is returned when every attempt collided with an existing code.
	ErrCodeSpaceExhausted = errors.New("access code space exhausted")

	// ErrDuplicate is wrapped by persistence errors raised on a unique-index violation
	// of an access_code field.
	ErrDuplicate = errors.New("access code already in use")
)

// Source is the randomness used to draw codes. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// ExistsFunc reports whether code is already assigned.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// InsertFunc persists a record carrying code. It returns an error wrapping
// ErrDuplicate when the store rejects the code as already used.
type InsertFunc func(ctx context.Context, code string) error

type Generator struct {
	mu          sync.Mutex
	src         Source
	maxAttempts int
}

func NewGenerator(src Source, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{src: src, maxAttempts: maxAttempts}
}

// NewSecureGenerator returns a generator backed by a ChaCha8 stream seeded from crypto/rand.
func NewSecureGenerator(maxAttempts int) *Generator {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return NewGenerator(rand.New(rand.NewChaCha8(seed)), maxAttempts)
}

func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate draws one candidate code. Uniqueness is not checked.
func (g *Generator) Generate(kind Kind) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if kind == Room {
		return fmt.Sprintf("%06d", RoomCodeMin+g.src.IntN(RoomCodeMax-RoomCodeMin+1))
	}

	var b strings.Builder
	b.Grow(MeetingCodeLength)
	for range MeetingCodeLength {
		b.WriteByte(MeetingAlphabet[g.src.IntN(len(MeetingAlphabet))])
	}
	return b.String()
}

// GenerateUnique draws codes until exists reports a free one, up to MaxAttempts draws.
func (g *Generator) GenerateUnique(ctx context.Context, kind Kind, exists ExistsFunc) (string, error) {
	for range g.maxAttempts {
		code := g.Generate(kind)
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check %s access code: %w", kind, err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %s codes collided %d times", ErrCodeSpaceExhausted, kind, g.maxAttempts)
}

// Allocate combines the existence pre-check with the persistence backstop: a code that
// passes exists but is rejected by insert as a duplicate consumes an attempt and a new
// code is drawn. Both kinds of collision share the MaxAttempts budget.
func (g *Generator) Allocate(ctx context.Context, kind Kind, exists ExistsFunc, insert InsertFunc) (string, error) {
	for range g.maxAttempts {
		code := g.Generate(kind)

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check %s access code: %w", kind, err)
		}
		if taken {
			continue
		}

		err = insert(ctx, code)
		if errors.Is(err, ErrDuplicate) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", fmt.Errorf("%w: %s codes collided %d times", ErrCodeSpaceExhausted, kind, g.maxAttempts)
}

// Valid reports whether code is well-formed for kind.
func Valid(kind Kind, code string) bool {
	switch kind {
	case Room:
		if len(code) != 6 {
			return false
		}
		n := 0
		for i := 0; i < len(code); i++ {
			if code[i] < '0' || code[i] > '9' {
				return false
			}
			n = n*10 + int(code[i]-'0')
		}
		return n >= RoomCodeMin && n <= RoomCodeMax
	case Meeting:
		if len(code) != MeetingCodeLength {
			return false
		}
		for i := 0; i < len(code); i++ {
			if !strings.ContainsRune(MeetingAlphabet, rune(code[i])) {
				return false
			}
		}
		return true
	}
	return false
}
