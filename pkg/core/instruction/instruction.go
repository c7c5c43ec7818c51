/*
Package instruction implements the wire format of the hello program
instructions.

The first byte of an encoded instruction is its Tag. Hello carries the
message as all the remaining bytes (no length prefix), Erase has no payload
and any trailing bytes are ignored.
*/
package instruction

import (
	"fmt"
	"unicode/utf8"

	"github.com/hellochain/hello-go/pkg/core/programerr"
)

// Tag is the instruction type, the first byte of the encoded instruction.
type Tag byte

// Instruction tags.
const (
	HelloT Tag = 0
	EraseT Tag = 1
)

// String implements the fmt.Stringer interface.
func (t Tag) String() string {
	switch t {
	case HelloT:
		return "Hello"
	case EraseT:
		return "Erase"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(t))
	}
}

// Instruction is a decoded program instruction, either *Hello or *Erase.
type Instruction interface {
	Tag() Tag
}

// Hello stores Message along with the authority key in the storage account.
type Hello struct {
	Message string
}

// Erase moves the storage account balance to the authority account.
type Erase struct{}

// Tag implements the Instruction interface.
func (*Hello) Tag() Tag { return HelloT }

// Tag implements the Instruction interface.
func (*Erase) Tag() Tag { return EraseT }

// Decode decodes an instruction from its wire form. It returns
// ErrInvalidInstruction for empty input or an unknown tag and
// ErrInvalidEncoding if Hello message is not a valid UTF-8 string.
func Decode(b []byte) (Instruction, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", programerr.ErrInvalidInstruction)
	}
	tag, rest := Tag(b[0]), b[1:]
	switch tag {
	case HelloT:
		if !utf8.Valid(rest) {
			return nil, fmt.Errorf("%w: hello message", programerr.ErrInvalidEncoding)
		}
		return &Hello{Message: string(rest)}, nil
	case EraseT:
		return &Erase{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", programerr.ErrInvalidInstruction, byte(tag))
	}
}

// Encode returns the wire form of the instruction. Message length is not
// checked here, the storage record limits it.
func Encode(ins Instruction) []byte {
	switch ins := ins.(type) {
	case *Hello:
		buf := make([]byte, 1+len(ins.Message))
		buf[0] = byte(HelloT)
		copy(buf[1:], ins.Message)
		return buf
	case *Erase:
		return []byte{byte(EraseT)}
	default:
		panic(fmt.Sprintf("unknown instruction %T", ins))
	}
}
