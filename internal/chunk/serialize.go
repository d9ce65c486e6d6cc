package chunk

import (
	"encoding/json"

	"github.com/pkg/errors"

	"shipvox/internal/apperr"
	"shipvox/internal/voxel"
)

// Format tags which on-disk encoding a ChunkData blob uses.
type Format string

const (
	FormatSparse Format = "sparse"
	FormatRLE    Format = "rle"
)

// SparseEntry is one (packedIndex, cellValue) pair in the sparse format.
type SparseEntry struct {
	Packed int        `json:"packed"`
	Cell   voxel.Cell `json:"cell"`
}

// Data is the serialised form of one Chunk, tagged by Format. Exactly one
// of Voxels / RLE is populated, matching the two ChunkData shapes in
// spec.md §6.
type Data struct {
	CX, CY, CZ int
	Format     Format
	Voxels     []SparseEntry
	RLE        []int
}

// jsonData mirrors spec.md §6's on-disk ChunkData shape exactly: sparse
// voxels are [packedIndex, cellValue] pairs, not {"packed":...,"cell":...}
// objects.
type jsonData struct {
	CX     int      `json:"cx"`
	CY     int      `json:"cy"`
	CZ     int      `json:"cz"`
	Format Format   `json:"format"`
	Voxels [][2]int `json:"voxels,omitempty"`
	RLE    []int    `json:"rle,omitempty"`
}

// MarshalJSON renders Data in spec.md §6's on-disk ChunkData shape.
func (d Data) MarshalJSON() ([]byte, error) {
	jd := jsonData{CX: d.CX, CY: d.CY, CZ: d.CZ, Format: d.Format, RLE: d.RLE}
	for _, e := range d.Voxels {
		jd.Voxels = append(jd.Voxels, [2]int{e.Packed, int(e.Cell)})
	}
	return json.Marshal(jd)
}

// UnmarshalJSON parses spec.md §6's on-disk ChunkData shape.
func (d *Data) UnmarshalJSON(raw []byte) error {
	var jd jsonData
	if err := json.Unmarshal(raw, &jd); err != nil {
		return err
	}
	d.CX, d.CY, d.CZ, d.Format, d.RLE = jd.CX, jd.CY, jd.CZ, jd.Format, jd.RLE
	d.Voxels = nil
	for _, pair := range jd.Voxels {
		d.Voxels = append(d.Voxels, SparseEntry{Packed: pair[0], Cell: voxel.Cell(pair[1])})
	}
	return nil
}

// densityThresholdFrac is the sparse/RLE density cutoff from spec.md §4.2:
// density < 0.2 uses sparse, otherwise RLE.
const densityThresholdFrac = 0.2

// Serialize encodes a non-empty chunk as sparse or RLE data, choosing the
// format by density. Callers must skip empty chunks entirely (spec.md:
// "Empty chunks are simply omitted from layouts").
func Serialize(c *Chunk) Data {
	density := float64(c.VoxelCount()) / float64(Volume)
	d := Data{CX: c.Coord.X, CY: c.Coord.Y, CZ: c.Coord.Z}
	if density < densityThresholdFrac {
		d.Format = FormatSparse
		d.Voxels = make([]SparseEntry, 0, c.VoxelCount())
		c.store.forEach(func(packed int, cell voxel.Cell) {
			d.Voxels = append(d.Voxels, SparseEntry{Packed: packed, Cell: cell})
		})
		return d
	}
	d.Format = FormatRLE
	d.RLE = encodeRLE(c)
	return d
}

// rleScanOrder enumerates every local coordinate in x-fastest, then z, then
// y order, exactly Volume times, matching spec.md §4.2's RLE scan order.
// This is deliberately NOT the same order as PackLocal's x+y*S+z*S^2
// index (see spec.md §9's note that winding/scan-order mismatches are a
// common correctness bug): RLE's middle loop is z, PackLocal's middle
// component is y.
func rleScanOrder(visit func(lx, ly, lz int)) {
	for y := 0; y < Size; y++ {
		for z := 0; z < Size; z++ {
			for x := 0; x < Size; x++ {
				visit(x, y, z)
			}
		}
	}
}

func encodeRLE(c *Chunk) []int {
	rle := make([]int, 0, 64)
	runType := -1
	runCount := 0
	flush := func() {
		if runCount > 0 {
			rle = append(rle, runType, runCount)
		}
	}
	rleScanOrder(func(lx, ly, lz int) {
		t := int(c.Get(lx, ly, lz).Type())
		// NOTE: RLE only encodes Type, not Variant: a chunk serialised as
		// RLE decodes every cell with variant 0.
		if t == runType {
			runCount++
			return
		}
		flush()
		runType = t
		runCount = 1
	})
	flush()
	return rle
}

// Deserialize decodes a ChunkData blob (either format) back into a Chunk.
func Deserialize(d Data) (*Chunk, error) {
	c := New(Coord{X: d.CX, Y: d.CY, Z: d.CZ})
	switch d.Format {
	case FormatSparse:
		for _, e := range d.Voxels {
			if e.Packed < 0 || e.Packed >= Volume {
				return nil, errors.Wrapf(apperr.ErrMalformedChunkData, "sparse index %d out of range at chunk (%d,%d,%d)", e.Packed, d.CX, d.CY, d.CZ)
			}
			lx, ly, lz := voxel.UnpackLocal(e.Packed)
			c.Set(lx, ly, lz, e.Cell)
		}
		return c, nil
	case FormatRLE:
		if err := decodeRLE(c, d.RLE); err != nil {
			return nil, errors.Wrapf(err, "chunk (%d,%d,%d)", d.CX, d.CY, d.CZ)
		}
		return c, nil
	default:
		return nil, errors.Wrapf(apperr.ErrMalformedChunkData, "unknown chunk format %q at chunk (%d,%d,%d)", d.Format, d.CX, d.CY, d.CZ)
	}
}

func decodeRLE(c *Chunk, rle []int) error {
	if len(rle)%2 != 0 {
		return errors.Wrap(apperr.ErrMalformedChunkData, "rle list has odd length")
	}
	total := 0
	for i := 0; i < len(rle); i += 2 {
		if rle[i+1] < 0 {
			return errors.Wrap(apperr.ErrMalformedChunkData, "rle run count is negative")
		}
		total += rle[i+1]
	}
	if total != Volume {
		return errors.Wrapf(apperr.ErrMalformedChunkData, "rle run-length sum %d != %d", total, Volume)
	}

	runIdx := 0
	remaining := 0
	currentType := voxel.Air
	rleScanOrder(func(lx, ly, lz int) {
		for remaining == 0 && runIdx < len(rle) {
			currentType = voxel.Type(rle[runIdx])
			remaining = rle[runIdx+1]
			runIdx += 2
		}
		if remaining > 0 {
			if currentType != voxel.Air {
				c.Set(lx, ly, lz, voxel.MakeCell(currentType, 0))
			}
			remaining--
		}
	})
	return nil
}
