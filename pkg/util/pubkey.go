package util

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeySize is the size of PublicKey in bytes.
const PublicKeySize = 32

// PublicKey is a 32 byte long account address. Its text form is base58.
type PublicKey [PublicKeySize]byte

// PublicKeyDecodeString attempts to decode the given base58 string into a
// PublicKey.
func PublicKeyDecodeString(s string) (PublicKey, error) {
	var u PublicKey
	b, err := base58.Decode(s)
	if err != nil {
		return u, fmt.Errorf("invalid base58 string: %w", err)
	}
	return PublicKeyDecodeBytes(b)
}

// PublicKeyDecodeBytes attempts to decode the given bytes into a PublicKey.
func PublicKeyDecodeBytes(b []byte) (u PublicKey, err error) {
	if len(b) != PublicKeySize {
		return u, fmt.Errorf("expected byte size of %d got %d", PublicKeySize, len(b))
	}
	copy(u[:], b)
	return
}

// Bytes returns the byte slice representation of u.
func (u PublicKey) Bytes() []byte {
	return u[:]
}

// String implements the stringer interface.
func (u PublicKey) String() string {
	return base58.Encode(u[:])
}

// Equals returns true if both PublicKey values are the same.
func (u PublicKey) Equals(other PublicKey) bool {
	return u == other
}

// IsZero returns true for the all-zero key.
func (u PublicKey) IsZero() bool {
	return u == PublicKey{}
}

// MarshalJSON implements the json marshaller interface.
func (u PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON implements the json unmarshaller interface.
func (u *PublicKey) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*u, err = PublicKeyDecodeString(js)
	return err
}

// MarshalYAML implements the YAML marshaller interface.
func (u PublicKey) MarshalYAML() (any, error) {
	return u.String(), nil
}

// UnmarshalYAML implements the YAML unmarshaller interface.
func (u *PublicKey) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	err := unmarshal(&s)
	if err != nil {
		return err
	}
	*u, err = PublicKeyDecodeString(s)
	return err
}
