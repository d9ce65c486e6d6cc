package layout

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"shipvox/internal/apperr"
	"shipvox/internal/mesher"
)

// meshMagic is the 4-byte file magic for the binary mesh cache format.
var meshMagic = [4]byte{'V', 'M', 'S', 'H'}

// meshVersion is the only mesh cache version this package will load.
const meshVersion = 1

// EncodeMesh writes m to the binary mesh cache format of spec.md §6:
// magic, version, counts, then flat position/normal/color float arrays and
// a flat index array, all little-endian.
func EncodeMesh(m mesher.Mesh) []byte {
	var buf bytes.Buffer
	buf.Write(meshMagic[:])
	writeU32(&buf, meshVersion)
	writeU32(&buf, uint32(len(m.Vertices)))
	writeU32(&buf, uint32(len(m.Indices)))

	for _, v := range m.Vertices {
		writeF32(&buf, v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		writeF32(&buf, v.Normal[0], v.Normal[1], v.Normal[2])
	}
	for _, v := range m.Vertices {
		writeF32(&buf, v.Color[0], v.Color[1], v.Color[2])
	}
	for _, idx := range m.Indices {
		writeU32(&buf, idx)
	}
	return buf.Bytes()
}

// DecodeMesh parses the binary mesh cache format, validating the magic and
// rejecting any version other than meshVersion.
func DecodeMesh(data []byte) (mesher.Mesh, error) {
	if len(data) < 16 {
		return mesher.Mesh{}, errors.Wrap(apperr.ErrInvalidMeshHeader, "truncated header")
	}
	if !bytes.Equal(data[0:4], meshMagic[:]) {
		return mesher.Mesh{}, errors.Wrapf(apperr.ErrInvalidMeshHeader, "bad magic %q", data[0:4])
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != meshVersion {
		return mesher.Mesh{}, errors.Wrapf(apperr.ErrInvalidMeshHeader, "unsupported version %d", version)
	}
	vertexCount := binary.LittleEndian.Uint32(data[8:12])
	indexCount := binary.LittleEndian.Uint32(data[12:16])

	want := 16 + int(vertexCount)*3*4*3 + int(indexCount)*4
	if len(data) < want {
		return mesher.Mesh{}, errors.Wrapf(apperr.ErrInvalidMeshHeader, "truncated body: have %d bytes, want %d", len(data), want)
	}

	r := bytes.NewReader(data[16:])
	positions := make([][3]float32, vertexCount)
	for i := range positions {
		positions[i] = readF32x3(r)
	}
	normals := make([][3]float32, vertexCount)
	for i := range normals {
		normals[i] = readF32x3(r)
	}
	colors := make([][3]float32, vertexCount)
	for i := range colors {
		colors[i] = readF32x3(r)
	}

	m := mesher.Mesh{
		Vertices: make([]mesher.Vertex, vertexCount),
		Indices:  make([]uint32, indexCount),
	}
	for i := range m.Vertices {
		m.Vertices[i] = mesher.Vertex{Position: positions[i], Normal: normals[i], Color: colors[i]}
	}
	for i := range m.Indices {
		var u uint32
		_ = binary.Read(r, binary.LittleEndian, &u)
		m.Indices[i] = u
	}
	return m, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeF32(buf *bytes.Buffer, vals ...float32) {
	for _, v := range vals {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}
}

func readF32x3(r *bytes.Reader) [3]float32 {
	var out [3]float32
	for i := range out {
		var bits uint32
		_ = binary.Read(r, binary.LittleEndian, &bits)
		out[i] = math.Float32frombits(bits)
	}
	return out
}
