package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

func pattern(i int) bool { return i%3 == 0 || i%7 == 0 || (i/500)%2 == 1 }

func TestBools(t *testing.T) {
	b := NewBools()
	var want []bool
	for i := 0; i < 300; i++ {
		b.Push(pattern(i))
		want = append(want, pattern(i))
	}

	require.Equal(t, 300, b.Len())
	assert.Equal(t, 4, b.Values.Len())
	assert.Equal(t, uint64(300-256), b.LastBits)
	assert.Equal(t, want, Collect[bool](b))
	assertPanicType(t, errors.ErrorTypeBounds, func() { b.Get(300) })

	segments := Segments(b)
	require.Len(t, segments, 3)
	assertSameValues[bool](t, b, Rebuild(NewBools(), Rebuild(NewBools(), b.Borrow())))

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Zero(t, b.LastWord)
}

func TestBoolsExtendFromSelf(t *testing.T) {
	other := NewBools()
	for i := 0; i < 250; i++ {
		other.Push(pattern(i))
	}

	ranges := [][2]int{{0, 250}, {64, 200}, {3, 130}, {128, 128}, {192, 250}}
	for _, r := range ranges {
		for _, prefix := range []int{0, 5, 64} {
			b := NewBools()
			for i := 0; i < prefix; i++ {
				b.Push(true)
			}
			b.ExtendFromSelf(other.Borrow(), r[0], r[1])

			require.Equal(t, prefix+r[1]-r[0], b.Len())
			for k := 0; k < r[1]-r[0]; k++ {
				assert.Equal(t, other.Get(r[0]+k), b.Get(prefix+k), "range %v prefix %d offset %d", r, prefix, k)
			}
		}
	}
}

func TestRankSelectRank(t *testing.T) {
	rs := NewRankSelect()
	const n = 5000
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		bit := pattern(i)
		rs.Push(bit)
		prefix[i+1] = prefix[i]
		if bit {
			prefix[i+1]++
		}
	}

	assert.Equal(t, n/blockBits, rs.Counts.Len())
	for i := 0; i <= n; i++ {
		require.Equal(t, prefix[i], rs.Rank(i), "rank(%d)", i)
	}
	assert.Equal(t, prefix[n], rs.Ones())
	assertPanicType(t, errors.ErrorTypeBounds, func() { rs.Rank(n + 1) })
}

func TestRankSelectSelect(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 1023, 1024, 1025, 4096, 5000} {
		rs := NewRankSelect()
		for i := 0; i < n; i++ {
			rs.Push(pattern(i))
		}

		for i := 0; i < n; i++ {
			if !rs.Get(i) {
				continue
			}
			pos, ok := rs.Select(rs.Rank(i) + 1)
			require.True(t, ok, "n=%d i=%d", n, i)
			require.Equal(t, i, pos, "n=%d", n)
		}

		_, ok := rs.Select(rs.Ones() + 1)
		assert.False(t, ok)
		_, ok = rs.Select(0)
		assert.False(t, ok)
	}
}

func TestRankSelectDenseBlocks(t *testing.T) {
	// Every bit set, so each block's cumulative count lands exactly on a
	// multiple of 1024.
	rs := NewRankSelect()
	for i := 0; i < 3*blockBits; i++ {
		rs.Push(true)
	}
	for _, r := range []int{1, 1023, 1024, 1025, 2048, 3072} {
		pos, ok := rs.Select(r)
		require.True(t, ok)
		assert.Equal(t, r-1, pos)
	}
}

func TestRankSelectPushInvariant(t *testing.T) {
	rs := NewRankSelect()
	for i := 0; i < 2100; i++ {
		bit := pattern(i)
		before := rs.Rank(i)
		rs.Push(bit)
		delta := rs.Rank(i+1) - before
		if bit {
			assert.Equal(t, 1, delta)
		} else {
			assert.Equal(t, 0, delta)
		}
	}
}

func TestRankSelectBytesRoundTrip(t *testing.T) {
	rs := NewRankSelect()
	for i := 0; i < 3000; i++ {
		rs.Push(pattern(i))
	}

	decoded := Rebuild(NewRankSelect(), rs.Borrow())
	require.Equal(t, rs.Len(), decoded.Len())
	for i := 0; i <= rs.Len(); i += 37 {
		assert.Equal(t, rs.Rank(i), decoded.Rank(i))
	}
	pos, ok := decoded.Select(100)
	want, _ := rs.Select(100)
	assert.True(t, ok)
	assert.Equal(t, want, pos)

	copied := NewRankSelect()
	copied.ExtendFromSelf(decoded, 10, 2010)
	for i := 0; i < 2000; i++ {
		require.Equal(t, rs.Get(10+i), copied.Get(i))
	}
	assert.Equal(t, rs.Rank(2010)-rs.Rank(10), copied.Ones())
}
