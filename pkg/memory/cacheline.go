package memory

import (
	"unsafe"
)

type CacheLinePadded [CacheLineSize]byte

func (c *CacheLinePadded) Uint32Ptr(offset int) *uint32 {
	return (*uint32)(unsafe.Pointer(&c[offset]))
}

func (c *CacheLinePadded) Uint64Ptr(offset int) *uint64 {
	return (*uint64)(unsafe.Pointer(&c[offset]))
}

func (c *CacheLinePadded) Int32Ptr(offset int) *int32 {
	return (*int32)(unsafe.Pointer(&c[offset]))
}

func (c *CacheLinePadded) Int64Ptr(offset int) *int64 {
	return (*int64)(unsafe.Pointer(&c[offset]))
}

func (c *CacheLinePadded) ByteSlice(start, length int) []byte {
	return c[start : start+length]
}

// ViolationCounters is the per-player counter block read from status
// reporting and admin commands while the ingest goroutine writes it.
// NewViolationCounters places each block in its own cache-line-aligned
// allocation and the trailing padding fills the rest of the line, so it
// never false-shares with the histories and rolling windows a
// PlayerContext or CombatContext also holds.
type ViolationCounters struct {
	_                [0]CacheLinePadded
	TotalViolations  uint64
	RecentViolations uint64
	_                [CacheLineSize - 16]byte
}

func NewViolationCounters() *ViolationCounters {
	buf, _ := AllocCacheLine()
	return (*ViolationCounters)(buf.Ptr())
}
