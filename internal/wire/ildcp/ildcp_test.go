package ildcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponseRoundTrip(t *testing.T) {
	r := &Response{
		ClientAddress: "example.parent.child1",
		AssetScale:    9,
		AssetCode:     "XRP",
	}

	raw := Encode(r)
	got, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, r.ClientAddress, got.ClientAddress)
	require.Equal(t, r.AssetScale, got.AssetScale)
	require.Equal(t, r.AssetCode, got.AssetCode)
}
