package flags

import (
	"flag"
	"io"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	value := util.Uint160{1, 2, 3}
	addr := Address{
		IsSet: true,
		Value: value,
	}

	require.Equal(t, address.Uint160ToString(value), addr.String())
}

func TestAddress_Set(t *testing.T) {
	value := util.Uint160{1, 2, 3}
	addr := Address{}

	t.Run("bad address", func(t *testing.T) {
		require.Error(t, addr.Set("not an address"))
	})

	t.Run("address", func(t *testing.T) {
		require.NoError(t, addr.Set(address.Uint160ToString(value)))
		require.Equal(t, true, addr.IsSet)
		require.Equal(t, value, addr.Value)
	})

	t.Run("hash", func(t *testing.T) {
		other := util.Uint160{7, 8, 9}
		require.NoError(t, addr.Set("0x"+other.StringLE()))
		require.Equal(t, other, addr.Value)
	})
}

func TestAddress_Uint160(t *testing.T) {
	value := util.Uint160{4, 5, 6}
	addr := Address{}

	t.Run("not set", func(t *testing.T) {
		require.Panics(t, func() { addr.Uint160() })
	})

	t.Run("success", func(t *testing.T) {
		addr.IsSet = true
		addr.Value = value
		require.Equal(t, value, addr.Uint160())
	})
}

func TestAddressFlag_String(t *testing.T) {
	f := AddressFlag{
		Name:  "address, a",
		Usage: "signer account",
	}
	require.Equal(t, "--address value, -a value\tsigner account", f.String())
	require.Equal(t, "address, a", f.GetName())
	require.False(t, f.IsSet())
}

func TestAddressFlag_Apply(t *testing.T) {
	addr := util.Uint160{1, 2, 3, 4}
	f := AddressFlag{Name: "address, a"}

	set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
	set.SetOutput(io.Discard)
	f.Apply(set)

	require.NoError(t, set.Parse([]string{"-a", address.Uint160ToString(addr)}))
	got := set.Lookup("address").Value.(*Address)
	require.True(t, got.IsSet)
	require.Equal(t, addr, got.Value)
}
