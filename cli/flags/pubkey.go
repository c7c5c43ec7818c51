/*
Package flags contains custom flag types used by the CLI.
*/
package flags

import (
	"flag"
	"fmt"

	"github.com/hellochain/hello-go/pkg/util"
	"github.com/urfave/cli"
)

// PublicKey is a wrapper for a util.PublicKey with flag.Value methods.
type PublicKey struct {
	IsSet bool
	Value util.PublicKey
}

var _ flag.Value = (*PublicKey)(nil)

// String implements the fmt.Stringer interface.
func (p PublicKey) String() string {
	if !p.IsSet {
		return ""
	}
	return p.Value.String()
}

// Set implements the flag.Value interface.
func (p *PublicKey) Set(s string) error {
	key, err := util.PublicKeyDecodeString(s)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid key %q: %w", s, err), 1)
	}
	p.IsSet = true
	p.Value = key
	return nil
}

// NewPublicKeyFlag returns a generic flag holding a fresh PublicKey value.
func NewPublicKeyFlag(name, usage string) cli.GenericFlag {
	return cli.GenericFlag{
		Name:  name,
		Usage: usage,
		Value: new(PublicKey),
	}
}

// GetPublicKey returns the key set for the named flag. An error is returned
// if the flag is missing.
func GetPublicKey(ctx *cli.Context, name string) (util.PublicKey, error) {
	p, ok := ctx.Generic(name).(*PublicKey)
	if !ok || !p.IsSet {
		return util.PublicKey{}, fmt.Errorf("missing '--%s' key", name)
	}
	return p.Value, nil
}
