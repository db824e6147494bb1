package debuginfo

import (
	"flag"
	"fmt"
	"os"

	"github.com/grafana/dskit/flagext"
)

// Reader keys accepted in Config.Order.
const (
	ReaderToolchain = "toolchain"
	ReaderLLVM      = "llvm"
	ReaderBinutils  = "binutils"
)

type Config struct {
	ToolchainRoot      string                 `yaml:"toolchain_root"`
	ToolchainAddr2Line string                 `yaml:"toolchain_addr2line"`
	LLVMSymbolizer     string                 `yaml:"llvm_symbolizer"`
	Addr2Line          string                 `yaml:"addr2line"`
	Order              flagext.StringSliceCSV `yaml:"order"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("reader.", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.ToolchainRoot, prefix+"toolchain-root", os.Getenv("PROS_TOOLCHAIN"), "Installation root of the vendor ARM toolchain. Defaults to $PROS_TOOLCHAIN.")
	f.StringVar(&cfg.ToolchainAddr2Line, prefix+"toolchain-addr2line", "arm-none-eabi-addr2line", "Name of the addr2line executable inside the vendor toolchain.")
	f.StringVar(&cfg.LLVMSymbolizer, prefix+"llvm-symbolizer", "llvm-symbolizer", "Path or name of the llvm-symbolizer executable.")
	f.StringVar(&cfg.Addr2Line, prefix+"addr2line", "addr2line", "Path or name of the GNU binutils addr2line executable.")
	cfg.Order = []string{ReaderToolchain, ReaderLLVM, ReaderBinutils}
	f.Var(&cfg.Order, prefix+"order", "Comma separated reader priority. Known readers: toolchain, llvm, binutils.")
}

func (cfg *Config) Validate() error {
	if len(cfg.Order) == 0 {
		return fmt.Errorf("invalid reader order: at least one reader is required")
	}
	seen := make(map[string]struct{}, len(cfg.Order))
	for _, key := range cfg.Order {
		switch key {
		case ReaderToolchain, ReaderLLVM, ReaderBinutils:
		default:
			return fmt.Errorf("invalid reader order: unknown reader %q", key)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("invalid reader order: %q listed twice", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Default builds the configured readers in priority order. Without a
// toolchain root the vendor toolchain reader is kept but never healthy, so
// that it is still named when no reader works.
func Default(cfg Config, goos string, runner Runner) []Reader {
	readers := make([]Reader, 0, len(cfg.Order))
	for _, key := range cfg.Order {
		switch key {
		case ReaderToolchain:
			readers = append(readers, NewToolchainReader("PROS toolchain addr2line", cfg.ToolchainRoot, goos, cfg.ToolchainAddr2Line, runner))
		case ReaderLLVM:
			readers = append(readers, NewJSONReader("llvm-symbolizer", cfg.LLVMSymbolizer, runner))
		case ReaderBinutils:
			readers = append(readers, NewTextReader("GNU addr2line", cfg.Addr2Line, runner))
		}
	}
	return readers
}
