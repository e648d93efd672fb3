package store

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
)

// fileMagic is the magic number reserved for store files, distinct from
// the PAM shard-index magic in encoding/pam/pamutil.ShardIndexMagic.
// FileVector neither writes nor checks it.
const fileMagic = uint32(0x62696f61) // "bioa"

// FileVector is a Vector backed by a recordio file, one block per
// element, compressed with zstd. It follows the same
// file.Create/recordio.NewWriter{Transformers:"zstd"}/file.Open/
// recordio.NewScanner shape as encoding/pam/pamutil.WriteShardIndex
// and ReadShardIndex, adapted from a single PAMShardIndex record to an
// open-ended sequence of assembler table records.
type FileVector struct {
	ctx   context.Context
	codec Codec

	// write side, valid only when created via CreateFileVector.
	out file.File
	rio recordio.Writer
	err *errorreporter.T

	// items holds every element once the vector has been fully
	// written or fully read; this package favors simplicity (load the
	// whole table into memory) over streaming reads, since assembler
	// tables are sized to fit in the memory of a single worker by
	// construction (spec.md §5 "resource model").
	items  []interface{}
	closed bool
}

// CreateFileVector opens path for writing and returns a FileVector
// that Append()s one compressed recordio block per element.
func CreateFileVector(ctx context.Context, path string, codec Codec) (*FileVector, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("store: create %v", path))
	}
	return &FileVector{
		ctx:   ctx,
		codec: codec,
		out:   out,
		rio: recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
			Transformers: []string{"zstd"},
		}),
		err: &errorreporter.T{},
	}, nil
}

// OpenFileVector opens path for reading and eagerly decodes every
// element.
func OpenFileVector(ctx context.Context, path string, codec Codec) (*FileVector, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("store: open %v", path))
	}
	defer file.CloseAndReport(ctx, in, &err)

	scanner := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	defer scanner.Finish() // nolint: errcheck

	var items []interface{}
	for scanner.Scan() {
		items = append(items, codec.Decode(scanner.Get().([]byte)))
	}
	if serr := scanner.Err(); serr != nil {
		return nil, errors.E(serr, fmt.Sprintf("store: scan %v", path))
	}
	return &FileVector{ctx: ctx, codec: codec, items: items, closed: true}, nil
}

func (v *FileVector) Len() int { return len(v.items) }

func (v *FileVector) Get(i int) interface{} { return v.items[i] }

// Append encodes x with the vector's Codec and writes it as its own
// recordio block. It panics if called on a FileVector opened for
// reading, or after Close.
func (v *FileVector) Append(x interface{}) {
	if v.rio == nil || v.closed {
		panic("store: Append on a read-only or closed FileVector")
	}
	v.rio.Append(v.codec.Encode(x))
	v.items = append(v.items, x)
}

// Checkpoint snapshots the vector's current contents to w as a
// sequence of uvarint-length-prefixed, snappy-compressed Codec
// records, letting a long marker-graph build (spec.md §5 "resource
// model") resume from a partial table rather than recomputing it
// after a restart. Unlike the recordio+zstd on-disk format used by
// CreateFileVector, a checkpoint is a single streamed snappy block,
// the same shape bampair's disk mate shard writes with
// snappy.NewBufferedWriter.
func (v *FileVector) Checkpoint(w io.Writer) error {
	sw := snappy.NewBufferedWriter(w)
	var lenBuf [binary.MaxVarintLen64]byte
	for _, item := range v.items {
		b := v.codec.Encode(item)
		n := binary.PutUvarint(lenBuf[:], uint64(len(b)))
		if _, err := sw.Write(lenBuf[:n]); err != nil {
			return errors.E(err, "store: checkpoint write length")
		}
		if _, err := sw.Write(b); err != nil {
			return errors.E(err, "store: checkpoint write record")
		}
	}
	return sw.Close()
}

// RestoreCheckpoint rebuilds a FileVector's in-memory contents from a
// stream written by Checkpoint. The returned vector is read-only;
// Append panics on it, matching OpenFileVector's contract.
func RestoreCheckpoint(r io.Reader, codec Codec) (*FileVector, error) {
	br := bufio.NewReader(snappy.NewReader(r))
	var items []interface{}
	for {
		n, err := binary.ReadUvarint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(err, "store: checkpoint read length")
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(br, b); err != nil {
			return nil, errors.E(err, "store: checkpoint read record")
		}
		items = append(items, codec.Decode(b))
	}
	return &FileVector{codec: codec, items: items, closed: true}, nil
}

// Close flushes and closes the underlying file. It is idempotent.
func (v *FileVector) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	if v.rio == nil {
		return nil
	}
	v.err.Set(v.rio.Finish())
	v.err.Set(v.out.Close(v.ctx))
	return v.err.Err()
}
