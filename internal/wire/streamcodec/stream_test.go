package streamcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketRoundTrip(t *testing.T) {
	p := &Packet{
		SequenceID: 7,
		Frames: []Frame{
			{Type: FrameStreamMoney, StreamID: 1, AmountToReceive: 500},
			{Type: FrameConnectionClose},
		},
	}

	raw, err := Encode(p)
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, p.SequenceID, got.SequenceID)
	require.Equal(t, uint64(500), got.AmountToReceive())
	require.True(t, got.HasConnectionClose())
}
