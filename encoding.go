package sparse

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/hupe1980/sparse/internal/buffer"
	"github.com/hupe1980/sparse/internal/conv"
	"github.com/hupe1980/sparse/internal/kernel"
)

// binaryVersion is bumped on incompatible changes to MarshalBinary output.
const binaryVersion = 1

var (
	_ encoding.BinaryMarshaler   = (*Array)(nil)
	_ encoding.BinaryUnmarshaler = (*Array)(nil)
	_ json.Marshaler             = (*Array)(nil)
	_ json.Unmarshaler           = (*Array)(nil)
)

// MarshalBinary encodes the array as
//
//	version u8 | dtype u8 | kind u8 | length uvarint | index | fill | values
//
// An integer index is a uvarint count followed by position gaps; a block
// index is a uvarint count followed by (gap, length) uvarint pairs. The fill
// and values are little-endian at the dtype's width.
func (a *Array) MarshalBinary() ([]byte, error) {
	dt := a.DType()
	buf := make([]byte, 0, 16+a.NPoints()*dt.Size())
	buf = append(buf, binaryVersion, byte(dt), byte(a.idx.Kind()))
	buf = binary.AppendUvarint(buf, uint64(a.Len()))

	switch x := a.idx.(type) {
	case *index.BlockIndex:
		starts, lengths := x.Blocks()
		buf = binary.AppendUvarint(buf, uint64(len(starts)))
		end := 0
		for i, s := range starts {
			buf = binary.AppendUvarint(buf, uint64(s-end))
			buf = binary.AppendUvarint(buf, uint64(lengths[i]))
			end = s + lengths[i]
		}
	default:
		positions := x.Indices()
		buf = binary.AppendUvarint(buf, uint64(len(positions)))
		next := 0
		for _, p := range positions {
			buf = binary.AppendUvarint(buf, uint64(p-next))
			next = p + 1
		}
	}

	fill, err := buffer.Fill(dt, 1, a.fill)
	if err != nil {
		return nil, translateError(err)
	}
	buf = appendElems(buf, fill)
	return appendElems(buf, a.values), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into a. Malformed
// input fails with ErrCorrupt.
func (a *Array) UnmarshalBinary(data []byte) error {
	d := &decoder{buf: data}
	if v := d.u8(); d.err == nil && v != binaryVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	dt := dtype.DType(d.u8())
	kind := index.Kind(d.u8())
	length := d.uvarint()
	if d.err != nil {
		return d.err
	}
	if !dt.Valid() {
		return fmt.Errorf("%w: invalid dtype %d", ErrCorrupt, dt)
	}

	var (
		idx index.SparseIndex
		err error
	)
	switch kind {
	case index.KindBlock:
		n := d.count(2)
		starts, lengths := make([]int, n), make([]int, n)
		end := 0
		for i := range n {
			starts[i] = end + d.bounded(length-end-1)
			lengths[i] = d.bounded(length - starts[i])
			end = starts[i] + lengths[i]
		}
		if d.err != nil {
			return d.err
		}
		idx, err = index.NewBlockIndex(length, starts, lengths)
	case index.KindInt:
		n := d.count(1)
		positions := make([]int, n)
		next := 0
		for i := range n {
			positions[i] = next + d.bounded(length-next-1)
			next = positions[i] + 1
		}
		if d.err != nil {
			return d.err
		}
		idx, err = index.NewIntIndex(length, positions)
	default:
		return fmt.Errorf("%w: invalid index kind %d", ErrCorrupt, kind)
	}
	if err != nil {
		return translateError(err)
	}

	fill := d.elems(dt, 1)
	values := d.elems(dt, idx.NPoints())
	if d.err != nil {
		return d.err
	}
	if len(d.buf) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.buf))
	}

	*a = Array{idx: idx, values: values, fill: fill.At(0)}
	return nil
}

func appendElems(dst []byte, b buffer.Buffer) []byte {
	dt := b.DType()
	l := b.Lane(buffer.LaneKind(dt))
	for i := range l.Len() {
		switch l.Kind {
		case kernel.Float:
			if dt == dtype.Float32 {
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(l.F[i])))
			} else {
				dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(l.F[i]))
			}
		case kernel.Int:
			dst = appendUint(dst, uint64(l.I[i]), dt.Size())
		case kernel.Uint:
			dst = appendUint(dst, l.U[i], dt.Size())
		default:
			if l.B[i] {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
	}
	return dst
}

func appendUint(dst []byte, u uint64, size int) []byte {
	for i := range size {
		dst = append(dst, byte(u>>(8*i)))
	}
	return dst
}

// decoder reads MarshalBinary output. The first failure sticks in err and
// turns every later read into a no-op.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
	}
}

func (d *decoder) u8() byte {
	if d.err != nil {
		return 0
	}
	if len(d.buf) == 0 {
		d.fail("unexpected end of data")
		return 0
	}
	v := d.buf[0]
	d.buf = d.buf[1:]
	return v
}

func (d *decoder) uvarint() int {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf)
	if n <= 0 {
		d.fail("bad varint")
		return 0
	}
	d.buf = d.buf[n:]
	i, err := conv.ToInt(v)
	if err != nil {
		d.fail("%v", err)
		return 0
	}
	return i
}

// bounded reads a position delta that must not exceed limit.
func (d *decoder) bounded(limit int) int {
	v := d.uvarint()
	if d.err == nil && v > limit {
		d.fail("delta %d exceeds remaining length %d", v, max(limit, 0))
		return 0
	}
	return v
}

// count reads an element count and rejects counts the remaining bytes
// cannot hold at minBytes per element.
func (d *decoder) count(minBytes int) int {
	n := d.uvarint()
	if d.err == nil && n > len(d.buf)/minBytes {
		d.fail("count %d exceeds payload", n)
		return 0
	}
	return n
}

func (d *decoder) elems(dt dtype.DType, n int) buffer.Buffer {
	size := dt.Size()
	if d.err != nil {
		return nil
	}
	if n > len(d.buf)/size {
		d.fail("need %d values of %d bytes, have %d bytes", n, size, len(d.buf))
		return nil
	}
	l := kernel.MakeLane(buffer.LaneKind(dt), n)
	for i := range n {
		var u uint64
		for j := range size {
			u |= uint64(d.buf[i*size+j]) << (8 * j)
		}
		switch l.Kind {
		case kernel.Float:
			if dt == dtype.Float32 {
				l.F[i] = float64(math.Float32frombits(uint32(u)))
			} else {
				l.F[i] = math.Float64frombits(u)
			}
		case kernel.Int:
			shift := 64 - 8*size
			l.I[i] = int64(u<<shift) >> shift
		case kernel.Uint:
			l.U[i] = u
		default:
			l.B[i] = u != 0
		}
	}
	d.buf = d.buf[n*size:]
	return buffer.FromLane(l, dt)
}

// arrayJSON is the JSON form of an Array. Non-finite floats are written as
// the strings "NaN", "+Inf" and "-Inf".
type arrayJSON struct {
	DType   string            `json:"dtype"`
	Length  int               `json:"length"`
	Kind    string            `json:"kind"`
	Indices []int             `json:"indices,omitempty"`
	Starts  []int             `json:"block_starts,omitempty"`
	Lengths []int             `json:"block_lengths,omitempty"`
	Fill    json.RawMessage   `json:"fill_value"`
	Values  []json.RawMessage `json:"sp_values"`
}

// MarshalJSON implements json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) {
	out := arrayJSON{
		DType:  a.DType().String(),
		Length: a.Len(),
		Kind:   a.idx.Kind().String(),
		Values: make([]json.RawMessage, 0, a.NPoints()),
	}
	if b, ok := a.idx.(*index.BlockIndex); ok {
		out.Starts, out.Lengths = b.Blocks()
	} else {
		out.Indices = a.idx.Indices()
	}

	fill, err := marshalScalar(a.fill)
	if err != nil {
		return nil, err
	}
	out.Fill = fill
	for i := range a.values.Len() {
		v, err := marshalScalar(a.values.At(i))
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Array) UnmarshalJSON(data []byte) error {
	var in arrayJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	dt, err := dtype.Parse(in.DType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	kind, err := index.ParseKind(in.Kind)
	if err != nil {
		return translateError(err)
	}

	var idx index.SparseIndex
	switch kind {
	case index.KindBlock:
		idx, err = index.NewBlockIndex(in.Length, in.Starts, in.Lengths)
	case index.KindInt:
		idx, err = index.NewIntIndex(in.Length, in.Indices)
	default:
		return fmt.Errorf("%w: index kind %q", ErrCorrupt, in.Kind)
	}
	if err != nil {
		return translateError(err)
	}
	if len(in.Values) != idx.NPoints() {
		return fmt.Errorf("%w: %d values for %d stored positions", ErrCorrupt, len(in.Values), idx.NPoints())
	}

	fill, err := unmarshalScalars(dt, []json.RawMessage{in.Fill})
	if err != nil {
		return err
	}
	values, err := unmarshalScalars(dt, in.Values)
	if err != nil {
		return err
	}

	*a = Array{idx: idx, values: values, fill: fill.At(0)}
	return nil
}

func marshalScalar(v any) (json.RawMessage, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return json.Marshal(v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func unmarshalScalars(dt dtype.DType, raw []json.RawMessage) (buffer.Buffer, error) {
	l := kernel.MakeLane(buffer.LaneKind(dt), len(raw))
	for i, r := range raw {
		var err error
		switch l.Kind {
		case kernel.Float:
			l.F[i], err = unmarshalFloat(r)
		case kernel.Int:
			err = json.Unmarshal(r, &l.I[i])
		case kernel.Uint:
			err = json.Unmarshal(r, &l.U[i])
		default:
			err = json.Unmarshal(r, &l.B[i])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", ErrCorrupt, i, err)
		}
	}
	return buffer.FromLane(l, dt), nil
}

func unmarshalFloat(r json.RawMessage) (float64, error) {
	if len(r) > 0 && r[0] == '"' {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(r, &f)
	return f, err
}
