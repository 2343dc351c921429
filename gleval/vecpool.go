package gleval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// VecPool holds scratch buffers reused across evaluations.
// Buffers acquired must be released before the next evaluation round.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	V2    bufPool[ms2.Vec]
	Float bufPool[float32]
}

// GetVecPool extracts a [*VecPool] from userData. It also accepts a value
// implementing `VecPool() *VecPool`.
func GetVecPool(userData any) (*VecPool, error) {
	switch v := userData.(type) {
	case *VecPool:
		if v == nil {
			return nil, errors.New("nil VecPool")
		}
		return v, nil
	case interface{ VecPool() *VecPool }:
		vp := v.VecPool()
		if vp == nil {
			return nil, errors.New("nil VecPool returned by userData")
		}
		return vp, nil
	case nil:
		return nil, errors.New("nil userData, want *VecPool")
	}
	return nil, fmt.Errorf("want *VecPool userData, got %T", userData)
}

// AssertAllReleased returns an error if any acquired buffer has not been released.
func (vp *VecPool) AssertAllReleased() error {
	if err := vp.V3.assertAllReleased(); err != nil {
		return fmt.Errorf("V3: %w", err)
	}
	if err := vp.V2.assertAllReleased(); err != nil {
		return fmt.Errorf("V2: %w", err)
	}
	if err := vp.Float.assertAllReleased(); err != nil {
		return fmt.Errorf("Float: %w", err)
	}
	return nil
}

type bufPool[T any] struct {
	bufs     [][]T
	acquired []bool
}

// Acquire returns a zeroed buffer of length n, allocating one if no free buffer has enough capacity.
func (bp *bufPool[T]) Acquire(n int) []T {
	for i, buf := range bp.bufs {
		if !bp.acquired[i] && cap(buf) >= n {
			bp.acquired[i] = true
			buf = buf[:n]
			clear(buf)
			return buf
		}
	}
	buf := make([]T, n)
	bp.bufs = append(bp.bufs, buf)
	bp.acquired = append(bp.acquired, true)
	return buf
}

// Release returns a buffer obtained from Acquire to the pool. Releasing a buffer not owned by the pool panics.
func (bp *bufPool[T]) Release(buf []T) {
	for i, b := range bp.bufs {
		if cap(b) > 0 && cap(buf) > 0 && &b[:1][0] == &buf[:1][0] {
			if !bp.acquired[i] {
				panic("release of already released buffer")
			}
			bp.acquired[i] = false
			return
		}
	}
	panic("release of buffer not owned by pool")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for i, acq := range bp.acquired {
		if acq {
			return fmt.Errorf("buffer %d of length %d not released", i, len(bp.bufs[i]))
		}
	}
	return nil
}
