package ccpcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateRoundTrip(t *testing.T) {
	secret := []byte("shared-session-secret")
	path := []string{"example.carol"}
	auth := ComputeAuth(secret, "example.z", path)

	u := &Update{
		FromEpochIndex: 1,
		ToEpochIndex:   2,
		NewRoutes: []Route{
			{Prefix: "example.z", Path: path, Auth: auth},
		},
		WithdrawnPrefixes: []string{"example.old"},
	}

	raw := EncodeUpdate(u)
	got, err := DecodeUpdate(raw)
	require.NoError(t, err)

	require.Equal(t, u.FromEpochIndex, got.FromEpochIndex)
	require.Equal(t, u.ToEpochIndex, got.ToEpochIndex)
	require.Len(t, got.NewRoutes, 1)
	require.Equal(t, "example.z", got.NewRoutes[0].Prefix)
	require.Equal(t, path, got.NewRoutes[0].Path)
	require.True(t, VerifyAuth(secret, got.NewRoutes[0]))
	require.Equal(t, []string{"example.old"}, got.WithdrawnPrefixes)
}

func TestVerifyAuthRejectsTamperedRoute(t *testing.T) {
	secret := []byte("shared-session-secret")
	route := Route{Prefix: "example.z", Path: []string{"example.carol"}}
	route.Auth = ComputeAuth(secret, route.Prefix, route.Path)

	route.Prefix = "example.zz"
	require.False(t, VerifyAuth(secret, route))
}

func TestContainsAddress(t *testing.T) {
	require.True(t, ContainsAddress([]string{"example.a", "example.b"}, "example.b"))
	require.False(t, ContainsAddress([]string{"example.a"}, "example.b"))
}
