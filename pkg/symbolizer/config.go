package symbolizer

import (
	"flag"
	"fmt"
	"time"

	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/debuginfo"
)

type Config struct {
	Readers   debuginfo.Config  `yaml:"readers"`
	Locators  codeobject.Config `yaml:"locators"`
	CacheSize int               `yaml:"cache_size" category:"advanced"`
	CacheTTL  time.Duration     `yaml:"cache_ttl" category:"advanced"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.Readers.RegisterFlagsWithPrefix("reader.", f)
	cfg.Locators.RegisterFlagsWithPrefix("locator.", f)
	f.IntVar(&cfg.CacheSize, "symbolizer.cache-size", 0, "Maximum number of resolved addresses kept in memory. Entries are dropped once a code object is rebuilt. 0 disables the cache.")
	f.DurationVar(&cfg.CacheTTL, "symbolizer.cache-ttl", 5*time.Minute, "How long a resolved address is served from memory. 0 keeps entries until evicted.")
}

func (cfg *Config) Validate() error {
	if err := cfg.Readers.Validate(); err != nil {
		return err
	}
	if err := cfg.Locators.Validate(); err != nil {
		return err
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("invalid cache-size value, must not be negative")
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("invalid cache-ttl value, must not be negative")
	}
	return nil
}
