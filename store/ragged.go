package store

import "context"

// flatRaggedVector is a RaggedVector built out of two flat Vectors: a
// uint32 offsets vector (one entry per group, the running element
// count after that group) and a data vector holding every element
// back to back. This mirrors the way encoding/pam/fieldio splits a
// variable-length field into a defaultBuf of fixed-size values and a
// blobBuf of the variable-length payload, addressed by offsets into
// the blob.
type flatRaggedVector struct {
	offsets Vector // uint32, offsets[i] = running element count through group i
	data    Vector
}

// NewMemRaggedVectorFlat creates an in-memory RaggedVector using the
// offsets+data representation, for callers that want the same shape
// in memory as on disk (e.g. to exercise size estimation).
func NewMemRaggedVectorFlat() RaggedVector {
	return &flatRaggedVector{offsets: NewMemVector(), data: NewMemVector()}
}

func (v *flatRaggedVector) Len() int { return v.offsets.Len() }

func (v *flatRaggedVector) Get(i int) []interface{} {
	start := uint32(0)
	if i > 0 {
		start = v.offsets.Get(i - 1).(uint32)
	}
	end := v.offsets.Get(i).(uint32)
	out := make([]interface{}, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, v.data.Get(int(j)))
	}
	return out
}

func (v *flatRaggedVector) Append(vs []interface{}) {
	for _, x := range vs {
		v.data.Append(x)
	}
	v.offsets.Append(uint32(v.data.Len()))
}

func (v *flatRaggedVector) Close() error {
	if err := v.data.Close(); err != nil {
		return err
	}
	return v.offsets.Close()
}

// CreateFileRaggedVector opens a pair of files, "<path>.offsets" and
// "<path>.data", and returns a RaggedVector that writes to both.
func CreateFileRaggedVector(ctx context.Context, path string, codec Codec) (RaggedVector, error) {
	offsets, err := CreateFileVector(ctx, path+".offsets", Uint32Codec{})
	if err != nil {
		return nil, err
	}
	data, err := CreateFileVector(ctx, path+".data", codec)
	if err != nil {
		offsets.Close() // nolint: errcheck
		return nil, err
	}
	return &flatRaggedVector{offsets: offsets, data: data}, nil
}

// OpenFileRaggedVector opens the pair of files written by
// CreateFileRaggedVector for reading.
func OpenFileRaggedVector(ctx context.Context, path string, codec Codec) (RaggedVector, error) {
	offsets, err := OpenFileVector(ctx, path+".offsets", Uint32Codec{})
	if err != nil {
		return nil, err
	}
	data, err := OpenFileVector(ctx, path+".data", codec)
	if err != nil {
		return nil, err
	}
	return &flatRaggedVector{offsets: offsets, data: data}, nil
}
