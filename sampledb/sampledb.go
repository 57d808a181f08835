// Package sampledb accumulates per-pixel radiance samples so that a render
// can be stopped, saved, and resumed later with more samples.
package sampledb

import (
	"bufio"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"spheretrace/vmath/rgb"

	"google.golang.org/protobuf/encoding/protowire"
)

const dataLayoutVersion = 1

// Header fields.
const (
	rowsField          protowire.Number = 1
	colsField          protowire.Number = 2
	layoutVersionField protowire.Number = 3
)

// Headers beyond this size are assumed to be corruption rather than a very
// large image.
const maxHeaderLength = 1 << 16

// maxPixels bounds the allocation a header can ask for.  It comfortably fits
// an 8K frame.
const maxPixels = 1 << 25

// DB holds linear (not gamma-corrected) radiance sums and sample counts for
// every pixel, in row-major order with row 0 at the top of the image.
type DB struct {
	Rows, Cols int

	// Sums has three entries (R, G, B) per pixel.
	Sums   []float64
	Counts []uint32
}

func New(rows, cols int) *DB {
	db := &DB{}
	db.Resize(rows, cols)
	return db
}

func (db *DB) Resize(rows, cols int) {
	db.Rows = rows
	db.Cols = cols
	db.Sums = make([]float64, 3*rows*cols)
	db.Counts = make([]uint32, rows*cols)
}

// Record adds n samples whose radiance sums to sum to pixel (r, c).
func (db *DB) Record(r, c int, sum rgb.T, n uint32) {
	idx := r*db.Cols + c
	db.Sums[3*idx+0] += sum[0]
	db.Sums[3*idx+1] += sum[1]
	db.Sums[3*idx+2] += sum[2]
	db.Counts[idx] += n
}

// Sample returns the accumulated sum and count for pixel (r, c).
func (db *DB) Sample(r, c int) (rgb.T, uint32) {
	idx := r*db.Cols + c
	return rgb.T{db.Sums[3*idx+0], db.Sums[3*idx+1], db.Sums[3*idx+2]}, db.Counts[idx]
}

func (db *DB) TotalSamples() uint64 {
	total := uint64(0)
	for _, n := range db.Counts {
		total += uint64(n)
	}
	return total
}

// Resolve returns the mean radiance of each pixel.  Pixels with no samples are
// black.
func (db *DB) Resolve() []rgb.T {
	out := make([]rgb.T, db.Rows*db.Cols)
	for i := range out {
		n := db.Counts[i]
		if n == 0 {
			continue
		}
		out[i] = rgb.DivCS(rgb.T{db.Sums[3*i+0], db.Sums[3*i+1], db.Sums[3*i+2]}, float64(n))
	}
	return out
}

func marshalHeader(db *DB) []byte {
	var b []byte
	b = protowire.AppendTag(b, rowsField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(db.Rows))
	b = protowire.AppendTag(b, colsField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(db.Cols))
	b = protowire.AppendTag(b, layoutVersionField, protowire.VarintType)
	b = protowire.AppendVarint(b, dataLayoutVersion)
	return b
}

type header struct {
	rows, cols, layoutVersion uint64
}

func unmarshalHeader(b []byte) (header, error) {
	hdr := header{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return header{}, fmt.Errorf("while reading header tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.VarintType {
			// Unknown fields from a newer writer are skipped.
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return header{}, fmt.Errorf("while skipping header field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return header{}, fmt.Errorf("while reading header field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case rowsField:
			hdr.rows = v
		case colsField:
			hdr.cols = v
		case layoutVersionField:
			hdr.layoutVersion = v
		}
	}
	return hdr, nil
}

func Read(in io.Reader) (*DB, error) {
	in = bufio.NewReader(in)

	var headerLength uint64
	if err := binary.Read(in, binary.LittleEndian, &headerLength); err != nil {
		return nil, fmt.Errorf("while reading header length: %w", err)
	}
	if headerLength > maxHeaderLength {
		return nil, fmt.Errorf("header length %d is implausibly large", headerLength)
	}

	headerBytes := make([]byte, int(headerLength))
	if _, err := io.ReadFull(in, headerBytes); err != nil {
		return nil, fmt.Errorf("while reading header bytes: %w", err)
	}

	hdr, err := unmarshalHeader(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("while unmarshaling header: %w", err)
	}
	if hdr.layoutVersion != dataLayoutVersion {
		return nil, fmt.Errorf("bad data layout version: %v", hdr.layoutVersion)
	}
	if hdr.rows == 0 || hdr.cols == 0 || hdr.rows > 1<<16 || hdr.cols > 1<<16 {
		return nil, fmt.Errorf("bad dimensions %dx%d", hdr.cols, hdr.rows)
	}
	if hdr.rows*hdr.cols > maxPixels {
		return nil, fmt.Errorf("dimensions %dx%d have too many pixels (limit %d)", hdr.cols, hdr.rows, maxPixels)
	}

	db := New(int(hdr.rows), int(hdr.cols))

	zipReader, err := zlib.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("while opening zip reader: %w", err)
	}
	defer zipReader.Close()

	if err := binary.Read(zipReader, binary.LittleEndian, db.Sums); err != nil {
		return nil, fmt.Errorf("while reading sums: %w", err)
	}
	if err := binary.Read(zipReader, binary.LittleEndian, db.Counts); err != nil {
		return nil, fmt.Errorf("while reading counts: %w", err)
	}

	return db, nil
}

func Write(db *DB, w io.Writer) error {
	hdrBytes := marshalHeader(db)

	headerLengthBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(headerLengthBytes, uint64(len(hdrBytes)))
	if _, err := w.Write(headerLengthBytes); err != nil {
		return fmt.Errorf("while writing header length: %w", err)
	}

	if _, err := w.Write(hdrBytes); err != nil {
		return fmt.Errorf("while writing header: %w", err)
	}

	zipWriter := zlib.NewWriter(w)

	if err := binary.Write(zipWriter, binary.LittleEndian, db.Sums); err != nil {
		return fmt.Errorf("while writing sums: %w", err)
	}

	if err := binary.Write(zipWriter, binary.LittleEndian, db.Counts); err != nil {
		return fmt.Errorf("while writing counts: %w", err)
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("while closing zip writer: %w", err)
	}

	return nil
}
