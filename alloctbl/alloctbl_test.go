package alloctbl

import (
	"testing"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowestFreeBitIsPreferred(t *testing.T) {
	var alloc = NewAllocTbl("inodes", 40, common.ENFILE, false)
	defer alloc.Shutdown()

	for i := 0; i < 20; i++ {
		var b, err = alloc.Alloc()
		require.NoError(t, err)
		assert.Equal(t, i, b)
	}
	alloc.Free(3)
	alloc.Free(17)

	var b, err = alloc.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 3, b)

	b, err = alloc.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 17, b)

	b, err = alloc.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 20, b)
	assert.Equal(t, 21, alloc.InUse())
}

func TestRotatingSearchDelaysReuse(t *testing.T) {
	var alloc = NewAllocTbl("pids", 4, common.EAGAIN, true)
	defer alloc.Shutdown()

	var b, _ = alloc.Alloc()
	assert.Equal(t, 0, b)
	b, _ = alloc.Alloc()
	assert.Equal(t, 1, b)

	// 1 is free again, but the search continues past it.
	alloc.Free(1)
	b, _ = alloc.Alloc()
	assert.Equal(t, 2, b)
	b, _ = alloc.Alloc()
	assert.Equal(t, 3, b)

	// Wrapping around finds the freed bit.
	b, _ = alloc.Alloc()
	assert.Equal(t, 1, b)
}

func TestExhaustion(t *testing.T) {
	// A size that isn't a multiple of the chunk size must not hand out
	// bits past the end of the map.
	var alloc = NewAllocTbl("small", 18, common.ENFILE, false)
	defer alloc.Shutdown()

	for i := 0; i < 18; i++ {
		var _, err = alloc.Alloc()
		require.NoError(t, err)
	}
	var b, err = alloc.Alloc()
	assert.Equal(t, common.NO_BIT, b)
	assert.Equal(t, common.ENFILE, err)

	alloc.Free(9)
	b, err = alloc.Alloc()
	assert.NoError(t, err)
	assert.Equal(t, 9, b)
}

func TestFreeOutOfRangeIsIgnored(t *testing.T) {
	var alloc = NewAllocTbl("small", 8, common.ENFILE, false)
	defer alloc.Shutdown()

	alloc.Free(-1)
	alloc.Free(8)
	assert.Equal(t, 0, alloc.InUse())
}
