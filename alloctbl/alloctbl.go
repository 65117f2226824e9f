package alloctbl

import (
	"math"

	"github.com/jnwhiteh/userkernel/common"
	log "github.com/sirupsen/logrus"
)

const FS_BITCHUNK_BITS = 16 // the number of bits in a bitchunk

type server_AllocTbl struct {
	name      string   // what is being allocated, for logging
	bits      int      // the number of usable bits in the map
	chunks    []uint16 // the bitmap itself
	inuse     int      // the number of allocated bits
	exhausted error    // returned when no bit is free
	rotate    bool     // whether searches resume after the last allocation

	search int // start searching for unallocated bits here

	in  chan reqAllocTbl
	out chan resAllocTbl
}

// NewAllocTbl starts an allocation table handing out the integers
// [0, bits). When |rotate| is set, each search starts just past the previous
// allocation so freed numbers are not immediately handed out again;
// otherwise the lowest free number is preferred.
func NewAllocTbl(name string, bits int, exhausted error, rotate bool) common.AllocTbl {
	alloc := &server_AllocTbl{
		name,
		bits,
		make([]uint16, (bits+FS_BITCHUNK_BITS-1)/FS_BITCHUNK_BITS),
		0,
		exhausted,
		rotate,
		0,
		make(chan reqAllocTbl),
		make(chan resAllocTbl),
	}

	go alloc.loop()
	return alloc
}

func (alloc *server_AllocTbl) loop() {
	alive := true
	for alive {
		req := <-alloc.in
		switch req := req.(type) {
		case req_AllocTbl_Alloc:
			b := alloc.alloc_bit(alloc.search)

			if b == common.NO_BIT {
				log.WithFields(log.Fields{"table": alloc.name, "size": alloc.bits}).
					Warn("allocation table exhausted")
				alloc.out <- res_AllocTbl_Alloc{common.NO_BIT, alloc.exhausted}
				continue
			}

			if alloc.rotate {
				alloc.search = b + 1
			} else {
				alloc.search = b // next time start here
			}
			alloc.inuse++
			alloc.out <- res_AllocTbl_Alloc{b, nil}
		case req_AllocTbl_Free:
			if req.bit < 0 || req.bit >= alloc.bits {
				alloc.out <- res_AllocTbl_Free{}
				continue
			}
			alloc.free_bit(req.bit)
			alloc.inuse--
			if !alloc.rotate && req.bit < alloc.search {
				alloc.search = req.bit
			}
			alloc.out <- res_AllocTbl_Free{}
		case req_AllocTbl_InUse:
			alloc.out <- res_AllocTbl_InUse{alloc.inuse}
		case req_AllocTbl_Shutdown:
			// This is always successful
			alive = false
			alloc.out <- res_AllocTbl_Shutdown{nil}
		}
	}
}

// Allocate a bit from the bit map and return its bit number
func (alloc *server_AllocTbl) alloc_bit(origin int) int {
	// Figure out where to start the bit search (depends on 'origin')
	if origin >= alloc.bits || origin < 0 {
		origin = 0 // for robustness
	}

	// Locate the starting place
	word := origin / FS_BITCHUNK_BITS
	first := origin % FS_BITCHUNK_BITS

	// Iterate over all words plus one, because we start in the middle
	for wcount := len(alloc.chunks) + 1; wcount > 0; wcount-- {
		num := alloc.chunks[word]

		// Does this word contain a free bit?
		if num != math.MaxUint16 {
			// Find and allocate the free bit
			for bit := uint(first); bit < FS_BITCHUNK_BITS; bit++ {
				if num&(1<<bit) != 0 {
					continue
				}

				// Get the bit number from the start of the bit map
				b := word*FS_BITCHUNK_BITS + int(bit)

				// Don't allocate bits beyond the end of the map
				if b >= alloc.bits {
					break
				}

				alloc.chunks[word] = num | (1 << bit)
				return b
			}
		}

		word++
		if word >= len(alloc.chunks) {
			word = 0
		}
		first = 0
	}

	return common.NO_BIT
}

// Deallocate a bit in the bit map, freeing it up for re-use
func (alloc *server_AllocTbl) free_bit(bit_returned int) {
	word := bit_returned / FS_BITCHUNK_BITS
	mask := uint16(1) << uint(bit_returned%FS_BITCHUNK_BITS)

	k := alloc.chunks[word]
	if (k & mask) == 0 {
		log.WithFields(log.Fields{"table": alloc.name, "bit": bit_returned}).
			Panic("tried to free unused bit")
	}

	alloc.chunks[word] = k & (^mask)
}
