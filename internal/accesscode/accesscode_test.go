package accesscode

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays a scripted sequence of draws, cycling when exhausted.
type fixedSource struct {
	values []int
	pos    int
}

func (f *fixedSource) IntN(n int) int {
	v := f.values[f.pos%len(f.values)]
	f.pos++
	return v % n
}

func seeded() *Generator {
	return NewGenerator(rand.New(rand.NewPCG(1, 2)), DefaultMaxAttempts)
}

func TestGenerate_RoomCodeShape(t *testing.T) {
	g := seeded()
	for range 1000 {
		code := g.Generate(Room)
		require.Len(t, code, 6)
		require.True(t, Valid(Room, code), "invalid room code %q", code)
	}
}

func TestGenerate_RoomCodeBounds(t *testing.T) {
	low := NewGenerator(&fixedSource{values: []int{0}}, 1)
	assert.Equal(t, "100000", low.Generate(Room))

	high := NewGenerator(&fixedSource{values: []int{RoomCodeMax - RoomCodeMin}}, 1)
	assert.Equal(t, "999999", high.Generate(Room))
}

func TestGenerate_MeetingCodeShape(t *testing.T) {
	g := seeded()
	for range 1000 {
		code := g.Generate(Meeting)
		require.Len(t, code, MeetingCodeLength)
		require.True(t, Valid(Meeting, code), "invalid meeting code %q", code)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewPCG(7, 7)), DefaultMaxAttempts)
	b := NewGenerator(rand.New(rand.NewPCG(7, 7)), DefaultMaxAttempts)
	for range 20 {
		assert.Equal(t, a.Generate(Meeting), b.Generate(Meeting))
	}
}

func TestGenerateUnique_PairwiseDistinct(t *testing.T) {
	g := seeded()
	issued := map[string]bool{}
	exists := func(_ context.Context, code string) (bool, error) {
		return issued[code], nil
	}

	for range 500 {
		code, err := g.GenerateUnique(context.Background(), Room, exists)
		require.NoError(t, err)
		require.False(t, issued[code], "duplicate code %s", code)
		issued[code] = true
	}
}

func TestGenerateUnique_SkipsCollisions(t *testing.T) {
	// First two draws hit taken codes, the third is free.
	g := NewGenerator(&fixedSource{values: []int{0, 0, 1}}, DefaultMaxAttempts)
	var checked []string
	exists := func(_ context.Context, code string) (bool, error) {
		checked = append(checked, code)
		return code == "100000", nil
	}

	code, err := g.GenerateUnique(context.Background(), Room, exists)
	require.NoError(t, err)
	assert.Equal(t, "100001", code)
	assert.Equal(t, []string{"100000", "100000", "100001"}, checked)
}

func TestGenerateUnique_ExhaustedWhenSaturated(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(3, 4)), DefaultMaxAttempts)
	calls := 0
	saturated := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := g.GenerateUnique(context.Background(), Meeting, saturated)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestGenerateUnique_PropagatesLookupError(t *testing.T) {
	g := seeded()
	boom := errors.New("mongo down")
	_, err := g.GenerateUnique(context.Background(), Room, func(context.Context, string) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestAllocate_RetriesDuplicateInsert(t *testing.T) {
	g := NewGenerator(&fixedSource{values: []int{5, 6}}, DefaultMaxAttempts)
	free := func(context.Context, string) (bool, error) { return false, nil }

	var inserted []string
	insert := func(_ context.Context, code string) error {
		inserted = append(inserted, code)
		if code == "100005" {
			return fmt.Errorf("insert room: %w", ErrDuplicate)
		}
		return nil
	}

	code, err := g.Allocate(context.Background(), Room, free, insert)
	require.NoError(t, err)
	assert.Equal(t, "100006", code)
	assert.Equal(t, []string{"100005", "100006"}, inserted)
}

func TestAllocate_DuplicateBackstopExhausts(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(9, 9)), 4)
	free := func(context.Context, string) (bool, error) { return false, nil }
	inserts := 0
	alwaysDup := func(context.Context, string) error {
		inserts++
		return ErrDuplicate
	}

	_, err := g.Allocate(context.Background(), Meeting, free, alwaysDup)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, 4, inserts)
}

func TestAllocate_OtherInsertErrorStops(t *testing.T) {
	g := seeded()
	boom := errors.New("conflict with meeting m1")
	inserts := 0
	_, err := g.Allocate(context.Background(), Meeting,
		func(context.Context, string) (bool, error) { return false, nil },
		func(context.Context, string) error {
			inserts++
			return boom
		},
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inserts)
}

func TestValid(t *testing.T) {
	tests := []struct {
		kind Kind
		code string
		want bool
	}{
		{Room, "123456", true},
		{Room, "099999", false},
		{Room, "12345", false},
		{Room, "12345a", false},
		{Meeting, "ABCDEF123456", true},
		{Meeting, "abcdef123456", false},
		{Meeting, "ABCDEF12345", false},
		{Meeting, "ABCDEF-23456", false},
		{Kind(9), "123456", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.kind, tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.kind, tt.code))
		})
	}
}
