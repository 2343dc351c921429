package glrender

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 4*3*4 + 2 // Normal and 3 vertices of 3 float32s, then uint16 attribute count.
)

// WriteBinarySTL writes triangles in binary STL format to w. Facet normals are computed
// from the counter-clockwise vertex order. It returns the amount of bytes written.
func WriteBinarySTL(w io.Writer, triangles []ms3.Triangle) (int, error) {
	if uint64(len(triangles)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var header [stlHeaderSize + 4]byte
	copy(header[:], "glplane binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(len(triangles)))
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	var buf [stlTriangleSize]byte
	for _, t := range triangles {
		normal := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
		if norm := ms3.Norm(normal); norm > 0 {
			normal = ms3.Scale(1/norm, normal)
		}
		putVec(buf[0:], normal)
		putVec(buf[12:], t[0])
		putVec(buf[24:], t[1])
		putVec(buf[36:], t[2])
		// Attribute byte count is left zeroed.
		ngot, err := w.Write(buf[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}
