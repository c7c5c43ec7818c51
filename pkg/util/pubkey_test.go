package util_test

import (
	"encoding/json"
	"testing"

	"github.com/hellochain/hello-go/internal/testserdes"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// The system program address, 32 zero bytes.
const systemProgram = "11111111111111111111111111111111"

func TestPublicKeyDecodeString(t *testing.T) {
	u, err := util.PublicKeyDecodeString(systemProgram)
	require.NoError(t, err)
	assert.True(t, u.IsZero())
	assert.Equal(t, systemProgram, u.String())

	_, err = util.PublicKeyDecodeString("0OIl")
	assert.Error(t, err)

	_, err = util.PublicKeyDecodeString("1111")
	assert.Error(t, err)
}

func TestPublicKeyDecodeBytes(t *testing.T) {
	b := make([]byte, util.PublicKeySize)
	for i := range b {
		b[i] = byte(i + 1)
	}
	u, err := util.PublicKeyDecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, b, u.Bytes())
	assert.False(t, u.IsZero())

	u2, err := util.PublicKeyDecodeString(u.String())
	require.NoError(t, err)
	assert.True(t, u.Equals(u2))

	_, err = util.PublicKeyDecodeBytes(b[1:])
	assert.Error(t, err)
}

func TestPublicKeyMarshalJSON(t *testing.T) {
	expected := util.PublicKey{1, 2, 3}
	testserdes.MarshalUnmarshalJSON(t, &expected, new(util.PublicKey))

	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.Equal(t, `"`+expected.String()+`"`, string(data))

	var actual util.PublicKey
	assert.Error(t, actual.UnmarshalJSON([]byte(`123`)))
	assert.Error(t, actual.UnmarshalJSON([]byte(`"zz"`)))
}

func TestPublicKeyMarshalYAML(t *testing.T) {
	type wrapper struct {
		Key util.PublicKey `yaml:"Key"`
	}
	expected := wrapper{Key: util.PublicKey{0xff, 0xee}}
	data, err := yaml.Marshal(expected)
	require.NoError(t, err)

	var actual wrapper
	require.NoError(t, yaml.Unmarshal(data, &actual))
	require.Equal(t, expected, actual)

	require.Error(t, yaml.Unmarshal([]byte("Key: [1, 2]"), &actual))
}
