package wire

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/stretchr/testify/require"
)

func shaSum(preimage [32]byte) [32]byte {
	return sha256.Sum256(preimage[:])
}

func samplePrepare(t *testing.T) *Prepare {
	t.Helper()
	return &Prepare{
		Amount:             500,
		ExpiresAt:          time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		ExecutionCondition: [32]byte{1, 2, 3},
		Destination:        ilpaddr.MustParse("example.bob.streamtag"),
		Data:               []byte("hello"),
	}
}

func TestPrepareRoundTrip(t *testing.T) {
	p := samplePrepare(t)
	raw, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(raw, ModeStrict)
	require.NoError(t, err)

	got, ok := decoded.(*Prepare)
	require.True(t, ok)
	require.Equal(t, p.Amount, got.Amount)
	require.True(t, p.ExpiresAt.Equal(got.ExpiresAt))
	require.Equal(t, p.ExecutionCondition, got.ExecutionCondition)
	require.Equal(t, p.Destination.String(), got.Destination.String())
	require.Equal(t, p.Data, got.Data)
}

func TestFulfillRoundTrip(t *testing.T) {
	f := &Fulfill{Fulfillment: [32]byte{9, 9, 9}, Data: []byte("ack")}
	raw, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(raw, ModeStrict)
	require.NoError(t, err)
	got := decoded.(*Fulfill)
	require.Equal(t, f.Fulfillment, got.Fulfillment)
	require.Equal(t, f.Data, got.Data)
}

func TestRejectRoundTrip(t *testing.T) {
	r := &Reject{
		TriggeredBy: ilpaddr.MustParse("example.connector"),
		Message:     "no route",
		Data:        []byte{},
	}
	r.SetCode("F02")
	raw, err := Encode(r)
	require.NoError(t, err)

	decoded, err := Decode(raw, ModeStrict)
	require.NoError(t, err)
	got := decoded.(*Reject)
	require.Equal(t, "F02", got.CodeString())
	require.Equal(t, r.Message, got.Message)
	require.Equal(t, r.TriggeredBy.String(), got.TriggeredBy.String())
}

func TestPrepareInPlaceMutation(t *testing.T) {
	p := samplePrepare(t)
	raw, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(raw, ModeStrict)
	require.NoError(t, err)
	got := decoded.(*Prepare)

	newExpiry := got.ExpiresAt.Add(time.Second)
	got.SetAmount(250)
	got.SetExpiresAt(newExpiry)

	require.Equal(t, uint64(250), got.Amount)
	require.True(t, got.ExpiresAt.Equal(newExpiry))

	// Re-decoding the mutated backing buffer must reflect the new values,
	// and only those two fields, confirming no other bytes were disturbed.
	redecoded, err := Decode(got.Buffer().Bytes(), ModeStrict)
	require.NoError(t, err)
	redone := redecoded.(*Prepare)
	require.Equal(t, uint64(250), redone.Amount)
	require.True(t, redone.ExpiresAt.Equal(newExpiry))
	require.Equal(t, p.ExecutionCondition, redone.ExecutionCondition)
	require.Equal(t, p.Destination.String(), redone.Destination.String())
	require.Equal(t, p.Data, redone.Data)
}

func TestFulfillmentSatisfiesCondition(t *testing.T) {
	preimage := [32]byte{1, 2, 3, 4}
	f := NewFulfillment(preimage, nil)

	raw, err := Encode(f)
	require.NoError(t, err)
	decoded, err := Decode(raw, ModeStrict)
	require.NoError(t, err)
	got := decoded.(*Fulfill)

	condition := shaSum(preimage)
	require.True(t, got.Satisfies(condition))

	wrongCondition := shaSum([32]byte{9, 9, 9})
	require.False(t, got.Satisfies(wrongCondition))
}

func TestRoundtripOnlyRejectsNonCanonicalLength(t *testing.T) {
	f := &Fulfill{Fulfillment: [32]byte{1}, Data: []byte("ack")}
	raw, err := Encode(f)
	require.NoError(t, err)

	// Rewrite the data length prefix into the equivalent two-byte form
	// the encoder never produces. A lenient or strict decode accepts
	// it; roundtrip-only mode must not.
	noncanon := append([]byte{}, raw[:33]...)
	noncanon = append(noncanon, 0x81, byte(len(f.Data)))
	noncanon = append(noncanon, f.Data...)

	_, err = Decode(noncanon, ModeStrict)
	require.NoError(t, err)

	_, err = Decode(noncanon, ModeStrict|ModeRoundtripOnly)
	require.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{TypePrepare, 0, 0}, ModeStrict)
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	require.Equal(t, ErrTruncatedPacket, codecErr.Kind)
}

func TestDecodeBadTypeTag(t *testing.T) {
	_, err := Decode([]byte{0xFF}, ModeStrict)
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	require.Equal(t, ErrBadTypeTag, codecErr.Kind)
}
