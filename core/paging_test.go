package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name        string
		total, size int
		want        int
	}{
		{"empty", 0, 10, 0},
		{"exact fit", 10, 5, 2},
		{"partial last page", 11, 5, 3},
		{"single item", 1, 10, 1},
		{"zero size", 10, 0, 0},
		{"negative size", 10, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.size))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("middle page", func(t *testing.T) {
		page := Paginate(items, 2, 3)
		assert.Equal(t, 2, page.Number)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 7, page.TotalItems)
		assert.Equal(t, []int{4, 5, 6}, page.Items)
	})

	t.Run("short last page", func(t *testing.T) {
		page := Paginate(items, 3, 3)
		assert.Equal(t, []int{7}, page.Items)
	})

	t.Run("page below range is clamped to the first", func(t *testing.T) {
		page := Paginate(items, 0, 3)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
	})

	t.Run("page above range is clamped to the last", func(t *testing.T) {
		page := Paginate(items, 99, 3)
		assert.Equal(t, 3, page.Number)
		assert.Equal(t, []int{7}, page.Items)
	})

	t.Run("empty collection", func(t *testing.T) {
		page := Paginate([]int{}, 1, 3)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, 0, page.TotalItems)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})

	t.Run("pages concatenate back to the input", func(t *testing.T) {
		size := 3
		var got []int
		for p := 1; p <= TotalPages(len(items), size); p++ {
			got = append(got, Paginate(items, p, size).Items...)
		}
		assert.Equal(t, items, got)
	})
}

func TestFilter(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	even := func(n int) bool { return n%2 == 0 }

	got := Filter(items, even)
	require.Equal(t, []int{2, 4, 6}, got)

	// idempotent: filtering the result again changes nothing
	assert.Equal(t, got, Filter(got, even))

	assert.Empty(t, Filter([]int{1, 3}, even))
}
