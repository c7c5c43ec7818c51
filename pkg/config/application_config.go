package config

import (
	"fmt"

	"github.com/hellochain/hello-go/pkg/core/storage/dbconfig"
)

// ApplicationConfiguration config specific to the node.
type ApplicationConfiguration struct {
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
	// AccountCacheSize is the number of accounts cached by the ledger.
	AccountCacheSize int          `yaml:"AccountCacheSize"`
	Prometheus       BasicService `yaml:"Prometheus"`
	Pprof            BasicService `yaml:"Pprof"`
}

// Validate checks ApplicationConfiguration for internal consistency and returns
// an error if any invalid settings are found.
func (a *ApplicationConfiguration) Validate() error {
	switch a.DBConfiguration.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.LevelDB:
		if a.DBConfiguration.LevelDBOptions.DataDirectoryPath == "" {
			return fmt.Errorf("LevelDB requires DataDirectoryPath")
		}
	case dbconfig.BoltDB:
		if a.DBConfiguration.BoltDBOptions.FilePath == "" {
			return fmt.Errorf("BoltDB requires FilePath")
		}
	default:
		return fmt.Errorf("unknown DB type: %q", a.DBConfiguration.Type)
	}
	if a.AccountCacheSize < 0 {
		return fmt.Errorf("negative AccountCacheSize: %d", a.AccountCacheSize)
	}
	if a.Prometheus.Enabled && len(a.Prometheus.Addresses) == 0 {
		return fmt.Errorf("no addresses specified for enabled Prometheus service")
	}
	if a.Pprof.Enabled && len(a.Pprof.Addresses) == 0 {
		return fmt.Errorf("no addresses specified for enabled Pprof service")
	}
	return nil
}
