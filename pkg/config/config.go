package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/hellochain/hello-go/pkg/core/storage/dbconfig"
	"github.com/hellochain/hello-go/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file.
	DefaultConfigPath = "./config/hello.yml"
	// DefaultAccountCacheSize is the default number of accounts kept in
	// the ledger cache.
	DefaultAccountCacheSize = 1024
	// DefaultProgramID is the address the hello program is deployed at by
	// default.
	DefaultProgramID = "He11oWor1d111111111111111111111111111111111"
	// DefaultDataDirectoryPath is the LevelDB directory used by default.
	DefaultDataDirectoryPath = "./chains/hello"
)

// Version is the version of the node, set at build time.
var Version string

// Config top level struct representing the config
// for the node.
type Config struct {
	ProgramConfiguration     ProgramConfiguration     `yaml:"ProgramConfiguration"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// ProgramConfiguration describes the hosted program.
type ProgramConfiguration struct {
	// ProgramID is the base58 address of the program.
	ProgramID util.PublicKey `yaml:"ProgramID"`
}

// Default returns the configuration used when no file is given: LevelDB
// storage in DefaultDataDirectoryPath, Info logging, no metrics.
func Default() Config {
	id, err := util.PublicKeyDecodeString(DefaultProgramID)
	if err != nil {
		panic(err)
	}
	return Config{
		ProgramConfiguration: ProgramConfiguration{
			ProgramID: id,
		},
		ApplicationConfiguration: ApplicationConfiguration{
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.LevelDB,
				LevelDBOptions: dbconfig.LevelDBOptions{
					DataDirectoryPath: DefaultDataDirectoryPath,
				},
			},
			AccountCacheSize: DefaultAccountCacheSize,
		},
	}
}

// LoadFile loads config from the provided path. Missing fields keep their
// default values, unknown fields are an error.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.ProgramConfiguration.ProgramID.IsZero() {
		return errors.New("ProgramID is not set")
	}
	return c.ApplicationConfiguration.Validate()
}
