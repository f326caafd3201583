package sprite

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/sprite/gpucore"
)

// Vertex is one vertex of the sprite pipeline: a pixel-space position, a
// texture coordinate and a straight-alpha tint.
//
// Memory layout (32 bytes, little-endian):
//
//	offset  0: pos   float32x2  @location(0)
//	offset  8: uv    float32x2  @location(1)
//	offset 16: color float32x4  @location(2)
type Vertex struct {
	Pos   Vec2
	UV    Vec2
	Color Color
}

// quadIndices is the index pattern of every sprite quad, for vertices
// emitted as top-left, bottom-left, bottom-right, top-right.
var quadIndices = [6]uint16{1, 2, 0, 2, 0, 3}

// appendVertexBytes appends the GPU encoding of verts to dst.
func appendVertexBytes(dst []byte, verts []Vertex) []byte {
	for i := range verts {
		v := &verts[i]
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos.Y))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.UV.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.UV.Y))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Color.R))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Color.G))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Color.B))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Color.A))
	}
	return dst
}

// appendIndexBytes appends the GPU encoding of indices to dst, padded to a
// multiple of 4 bytes as buffer writes require.
func appendIndexBytes(dst []byte, indices []uint16) []byte {
	for _, idx := range indices {
		dst = binary.LittleEndian.AppendUint16(dst, idx)
	}
	if len(indices)%2 != 0 {
		dst = binary.LittleEndian.AppendUint16(dst, 0)
	}
	return dst
}

// DecodeVertices decodes vertices previously encoded for the GPU. Backends
// that draw on the CPU side (ebiten) use it to read streaming buffers.
func DecodeVertices(data []byte) []Vertex {
	n := len(data) / gpucore.VertexStride
	verts := make([]Vertex, n)
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := range verts {
		o := i * gpucore.VertexStride
		verts[i] = Vertex{
			Pos:   Vec2{X: f(o), Y: f(o + 4)},
			UV:    Vec2{X: f(o + 8), Y: f(o + 12)},
			Color: Color{R: f(o + 16), G: f(o + 20), B: f(o + 24), A: f(o + 28)},
		}
	}
	return verts
}

// DecodeIndices decodes count indices previously encoded for the GPU.
func DecodeIndices(data []byte, count int) []uint16 {
	if n := len(data) / gpucore.IndexSize; count > n {
		count = n
	}
	indices := make([]uint16, count)
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint16(data[i*gpucore.IndexSize:])
	}
	return indices
}
