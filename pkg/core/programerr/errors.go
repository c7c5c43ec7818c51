/*
Package programerr defines the errors the hello program can fail with.

Every failure of an invocation is terminal and leaves all accounts intact.
Errors returned by the program packages either are one of the sentinels
below or wrap one of them, so callers should test for them with errors.Is.
*/
package programerr

import "errors"

// Program errors.
var (
	// ErrInvalidInstruction is returned for an empty instruction or an
	// unknown instruction tag.
	ErrInvalidInstruction = errors.New("invalid instruction")
	// ErrInvalidEncoding is returned when a message is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")
	// ErrMissingRequiredSignature is returned when the authority account
	// hasn't signed the transaction.
	ErrMissingRequiredSignature = errors.New("missing required signature")
	// ErrBufferSizeMismatch is returned when the storage account data has
	// a size different from the record size.
	ErrBufferSizeMismatch = errors.New("account data size mismatch")
	// ErrMessageTooLong is returned on an attempt to store a message that
	// doesn't fit into the record.
	ErrMessageTooLong = errors.New("message is too long")
	// ErrNotEnoughAccountKeys is returned when the instruction is given
	// less accounts than it needs.
	ErrNotEnoughAccountKeys = errors.New("not enough account keys")
	// ErrArithmeticOverflow is returned when a balance can't hold the
	// result of a transfer.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrAccountAliased is returned when the same account is passed as both
	// the authority and the storage account.
	ErrAccountAliased = errors.New("account passed more than once")
)

// Codes are stable numeric identifiers of program errors, 0 means success.
const (
	CodeOK uint32 = iota
	CodeInvalidInstruction
	CodeInvalidEncoding
	CodeMissingRequiredSignature
	CodeBufferSizeMismatch
	CodeMessageTooLong
	CodeNotEnoughAccountKeys
	CodeArithmeticOverflow
	CodeAccountAliased
	// CodeUnknown is used for errors not produced by the program.
	CodeUnknown uint32 = 0xffffffff
)

var codes = []struct {
	err  error
	code uint32
}{
	{ErrInvalidInstruction, CodeInvalidInstruction},
	{ErrInvalidEncoding, CodeInvalidEncoding},
	{ErrMissingRequiredSignature, CodeMissingRequiredSignature},
	{ErrBufferSizeMismatch, CodeBufferSizeMismatch},
	{ErrMessageTooLong, CodeMessageTooLong},
	{ErrNotEnoughAccountKeys, CodeNotEnoughAccountKeys},
	{ErrArithmeticOverflow, CodeArithmeticOverflow},
	{ErrAccountAliased, CodeAccountAliased},
}

// Code returns the numeric code of err. nil error has CodeOK.
func Code(err error) uint32 {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// FromCode returns the error for the given code, nil for CodeOK and for
// unknown codes.
func FromCode(code uint32) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
