package state

import (
	"fmt"
	"unicode/utf8"

	"github.com/hellochain/hello-go/pkg/core/programerr"
	"github.com/hellochain/hello-go/pkg/util"
)

// HelloRecord layout, all offsets are in bytes from the beginning of the
// account data.
const (
	helloOwnerOffset = 0
	helloOwnerLen    = util.PublicKeySize
	helloLenOffset   = helloOwnerOffset + helloOwnerLen
	helloMsgOffset   = helloLenOffset + 1
	helloMsgCapacity = 256
)

const (
	// HelloRecordSize is the exact size of the hello storage account data.
	HelloRecordSize = helloMsgOffset + helloMsgCapacity
	// MaxHelloMessageLen is the maximum message length in bytes, it's
	// limited by the single length byte.
	MaxHelloMessageLen = 255
)

// HelloRecord is the state kept in the hello program storage account: the
// key of the last authority that wrote to it and its message.
type HelloRecord struct {
	Owner   util.PublicKey
	Message string
}

// DecodeHelloRecordUnchecked reads HelloRecord from the account data. Any
// buffer of HelloRecordSize bytes with a valid UTF-8 message is accepted,
// there is no initialization marker. Only the first length-byte bytes of the
// payload are looked at.
func DecodeHelloRecordUnchecked(buf []byte) (*HelloRecord, error) {
	if len(buf) != HelloRecordSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			programerr.ErrBufferSizeMismatch, HelloRecordSize, len(buf))
	}
	var (
		rec    = new(HelloRecord)
		msgLen = int(buf[helloLenOffset])
		msg    = buf[helloMsgOffset : helloMsgOffset+msgLen]
	)
	copy(rec.Owner[:], buf[helloOwnerOffset:helloOwnerOffset+helloOwnerLen])
	if !utf8.Valid(msg) {
		return nil, fmt.Errorf("%w: stored message", programerr.ErrInvalidEncoding)
	}
	rec.Message = string(msg)
	return rec, nil
}

// Encode writes the record into the account data in place. buf is not
// touched if the record doesn't fit. Bytes after the message are left as is.
func (r *HelloRecord) Encode(buf []byte) error {
	if len(buf) != HelloRecordSize {
		return fmt.Errorf("%w: expected %d bytes, got %d",
			programerr.ErrBufferSizeMismatch, HelloRecordSize, len(buf))
	}
	if len(r.Message) > MaxHelloMessageLen {
		return fmt.Errorf("%w: %d bytes, max %d",
			programerr.ErrMessageTooLong, len(r.Message), MaxHelloMessageLen)
	}
	copy(buf[helloOwnerOffset:helloOwnerOffset+helloOwnerLen], r.Owner[:])
	buf[helloLenOffset] = byte(len(r.Message))
	copy(buf[helloMsgOffset:], r.Message)
	return nil
}
