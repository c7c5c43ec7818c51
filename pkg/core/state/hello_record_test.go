package state

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hellochain/hello-go/internal/random"
	"github.com/hellochain/hello-go/pkg/core/programerr"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestHelloRecordSize(t *testing.T) {
	require.Equal(t, 289, HelloRecordSize)
}

func TestDecodeHelloRecordUnchecked(t *testing.T) {
	buf := make([]byte, 0, HelloRecordSize)
	buf = append(buf, make([]byte, 32)...)
	buf = append(buf, 5)
	buf = append(buf, "hello"...)
	buf = append(buf, make([]byte, 250)...)
	require.Len(t, buf, HelloRecordSize)

	rec, err := DecodeHelloRecordUnchecked(buf)
	require.NoError(t, err)
	require.Equal(t, &HelloRecord{Message: "hello"}, rec)

	t.Run("zeroed", func(t *testing.T) {
		rec, err := DecodeHelloRecordUnchecked(make([]byte, HelloRecordSize))
		require.NoError(t, err)
		require.Equal(t, &HelloRecord{}, rec)
	})
	t.Run("garbage after message", func(t *testing.T) {
		b := bytes.Clone(buf)
		for i := 33 + 5; i < HelloRecordSize; i++ {
			b[i] = 0xFF
		}
		rec, err := DecodeHelloRecordUnchecked(b)
		require.NoError(t, err)
		require.Equal(t, "hello", rec.Message)
	})
	t.Run("bad size", func(t *testing.T) {
		for _, l := range []int{0, 32, 33, HelloRecordSize - 1, HelloRecordSize + 1} {
			_, err := DecodeHelloRecordUnchecked(make([]byte, l))
			require.ErrorIs(t, err, programerr.ErrBufferSizeMismatch)
		}
	})
	t.Run("invalid UTF-8", func(t *testing.T) {
		b := bytes.Clone(buf)
		b[33] = 0xFF
		_, err := DecodeHelloRecordUnchecked(b)
		require.ErrorIs(t, err, programerr.ErrInvalidEncoding)
	})
}

func TestHelloRecordEncode(t *testing.T) {
	owner := random.PublicKey()
	rec := &HelloRecord{Owner: owner, Message: "hi"}
	buf := make([]byte, HelloRecordSize)
	require.NoError(t, rec.Encode(buf))

	require.Equal(t, owner.Bytes(), buf[:32])
	require.Equal(t, byte(2), buf[32])
	require.Equal(t, []byte("hi"), buf[33:35])
	require.Equal(t, make([]byte, HelloRecordSize-35), buf[35:])

	t.Run("stale tail is kept", func(t *testing.T) {
		buf := make([]byte, HelloRecordSize)
		require.NoError(t, (&HelloRecord{Message: "a longer message"}).Encode(buf))
		require.NoError(t, (&HelloRecord{Owner: owner, Message: "short"}).Encode(buf))
		require.Equal(t, []byte("short"), buf[33:38])
		require.Equal(t, []byte("message"), buf[42:49])

		actual, err := DecodeHelloRecordUnchecked(buf)
		require.NoError(t, err)
		require.Equal(t, &HelloRecord{Owner: owner, Message: "short"}, actual)
	})
	t.Run("too long", func(t *testing.T) {
		buf := random.Bytes(HelloRecordSize)
		orig := bytes.Clone(buf)
		rec := &HelloRecord{Owner: owner, Message: strings.Repeat("x", MaxHelloMessageLen+1)}
		require.ErrorIs(t, rec.Encode(buf), programerr.ErrMessageTooLong)
		require.Equal(t, orig, buf)
	})
	t.Run("bad size", func(t *testing.T) {
		buf := make([]byte, HelloRecordSize-1)
		require.ErrorIs(t, rec.Encode(buf), programerr.ErrBufferSizeMismatch)
		require.Equal(t, make([]byte, HelloRecordSize-1), buf)
	})
}

func TestHelloRecordEncodeDecode(t *testing.T) {
	for _, l := range []int{0, 1, 100, MaxHelloMessageLen} {
		expected := &HelloRecord{Owner: random.PublicKey(), Message: random.String(l)}
		buf := random.Bytes(HelloRecordSize)
		require.NoError(t, expected.Encode(buf))

		actual, err := DecodeHelloRecordUnchecked(buf)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}

	expected := &HelloRecord{Owner: util.PublicKey{1}, Message: "Grüße 👋"}
	buf := make([]byte, HelloRecordSize)
	require.NoError(t, expected.Encode(buf))
	actual, err := DecodeHelloRecordUnchecked(buf)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}
