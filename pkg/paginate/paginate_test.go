package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func Test_TotalPages(t *testing.T) {
	testCases := []struct {
		n        int
		size     int
		expected int
	}{
		{n: 0, size: 6, expected: 0},
		{n: 1, size: 6, expected: 1},
		{n: 6, size: 6, expected: 1},
		{n: 7, size: 6, expected: 2},
		{n: 12, size: 6, expected: 2},
		{n: 13, size: 6, expected: 3},
		{n: 5, size: 0, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d items by %d", tc.n, tc.size), func(t *testing.T) {
			assert.Equal(t, tc.expected, TotalPages(tc.n, tc.size))
		})
	}
}

func Test_Paginator_ConcatenatedPagesReproduceSequence(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 7, 12, 13, 40} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			// given
			items := seq(n)
			p := New[int](6)
			p.SetItems(items)

			// when
			var all []int
			for page := 1; page <= p.TotalPages(); page++ {
				p.GoToPage(page)
				all = append(all, p.Items()...)
			}

			// then
			assert.Equal(t, (n+5)/6, p.TotalPages())
			if n == 0 {
				assert.Empty(t, all)
				return
			}
			assert.Equal(t, items, all)
		})
	}
}

func Test_Paginator_SevenItems(t *testing.T) {
	// given
	p := New[int](6)
	p.SetItems(seq(7))

	// then
	require.Equal(t, 2, p.TotalPages())
	assert.Len(t, p.Items(), 6)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	// when
	p.Next()

	// then
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, []int{6}, p.Items())
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
}

func Test_Paginator_GoToPageClamps(t *testing.T) {
	testCases := []struct {
		name     string
		items    int
		page     int
		expected int
	}{
		{name: "below range", items: 20, page: -3, expected: 1},
		{name: "zero", items: 20, page: 0, expected: 1},
		{name: "in range", items: 20, page: 3, expected: 3},
		{name: "above range", items: 20, page: 99, expected: 4},
		{name: "empty sequence", items: 0, page: 5, expected: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := New[int](6)
			p.SetItems(seq(tc.items))
			p.GoToPage(tc.page)
			assert.Equal(t, tc.expected, p.CurrentPage())
		})
	}
}

func Test_Paginator_NextPrevStayInBounds(t *testing.T) {
	p := New[int](6)
	p.SetItems(seq(8))

	p.Prev()
	assert.Equal(t, 1, p.CurrentPage())

	p.Next()
	p.Next()
	p.Next()
	assert.Equal(t, 2, p.CurrentPage())
}

func Test_Paginator_ShrinkResetsToFirstPage(t *testing.T) {
	// given
	p := New[int](6)
	p.SetItems(seq(13))
	p.GoToPage(3)

	// when - still three pages
	p.SetItems(seq(14))
	// then
	assert.Equal(t, 3, p.CurrentPage())

	// when - shrinks to two pages
	p.SetItems(seq(7))
	// then
	assert.Equal(t, 1, p.CurrentPage())
	assert.Len(t, p.Items(), 6)
}

func Test_Paginator_ShrinkToEmpty(t *testing.T) {
	p := New[int](6)
	p.SetItems(seq(7))
	p.GoToPage(2)

	p.SetItems(nil)

	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 0, p.TotalPages())
	assert.Empty(t, p.Items())
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func Test_Paginator_PageSizeBelowOne(t *testing.T) {
	p := New[int](0)
	assert.Equal(t, 1, p.PageSize())
}

func Test_Slice(t *testing.T) {
	items := seq(10)
	assert.Equal(t, []int{0, 1, 2, 3}, Slice(items, 1, 4))
	assert.Equal(t, []int{8, 9}, Slice(items, 3, 4))
	assert.Empty(t, Slice(items, 4, 4))
	assert.Empty(t, Slice(items, 0, 4))
	assert.Empty(t, Slice[int](nil, 1, 4))
}

func Test_Slice_DoesNotAliasCapacity(t *testing.T) {
	items := seq(10)
	page := Slice(items, 1, 4)
	page = append(page, 100)
	assert.Equal(t, 4, items[4], "append on a page must not overwrite the next item")
	assert.Len(t, page, 5)
}
