package assemblepb

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/require"
)

func TestAlignmentInfoRecordRoundTrip(t *testing.T) {
	in := &AlignmentInfoRecord{
		OrientedReadId0: 2,
		OrientedReadId1: 5,
		MarkerCount:     17,
		FirstOrdinal0:   3,
		LastOrdinal0:    20,
	}
	buf, err := proto.Marshal(in)
	require.NoError(t, err)

	out := &AlignmentInfoRecord{}
	require.NoError(t, proto.Unmarshal(buf, out))
	require.Equal(t, in, out)
}

func TestAssemblySegmentRecordRoundTripWithRepeatedField(t *testing.T) {
	in := &AssemblySegmentRecord{
		SegmentId:        1,
		Source:           10,
		Target:           20,
		LengthBases:      123,
		MarkerGraphEdges: []int32{4, 5, 6},
	}
	buf, err := proto.Marshal(in)
	require.NoError(t, err)

	out := &AssemblySegmentRecord{}
	require.NoError(t, proto.Unmarshal(buf, out))
	require.Equal(t, in, out)
}
