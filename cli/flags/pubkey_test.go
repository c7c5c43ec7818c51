package flags

import (
	"flag"
	"testing"

	"github.com/hellochain/hello-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const testKey = "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"

func TestPublicKey_Set(t *testing.T) {
	var p PublicKey
	require.Equal(t, "", p.String())

	require.Error(t, p.Set("not a key"))
	require.False(t, p.IsSet)

	require.NoError(t, p.Set(testKey))
	require.True(t, p.IsSet)
	require.Equal(t, testKey, p.String())

	expected, err := util.PublicKeyDecodeString(testKey)
	require.NoError(t, err)
	require.Equal(t, expected, p.Value)
}

func TestGetPublicKey(t *testing.T) {
	f := NewPublicKeyFlag("key, k", "test key")
	set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
	f.Apply(set)
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	_, err := GetPublicKey(ctx, "key")
	require.Error(t, err)

	require.NoError(t, set.Parse([]string{"-k", testKey}))
	key, err := GetPublicKey(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, testKey, key.String())

	_, err = GetPublicKey(ctx, "unknown")
	require.Error(t, err)
}
