// Package config resolves the solver's runtime configuration from
// environment variables, with flag overrides for the solve subcommand,
// mirroring cmd/chessplay-uci/main.go's flag.String + os.Getenv
// fallback for -cpuprofile/CPUPROFILE.
package config

import (
	"flag"
	"os"
	"strconv"
)

const (
	DefaultHeight      = 6
	DefaultThreads     = 4
	DefaultSavePath    = "solutions.pc"
	DefaultWeightsPath = "testdata/default.nnpc"
	DefaultTTSizeMB    = 64
)

// Config is the resolved set of solver runtime parameters.
type Config struct {
	Height      int
	Threads     int
	SavePath    string
	WeightsPath string
	TTSizeMB    int
	CPUProfile  string
}

// FromEnv resolves a Config from HEIGHT, THREADS, SAVE_PATH,
// WEIGHTS_PATH and TT_SIZE_MB environment variables, falling back to
// the package defaults for anything unset or unparsable.
func FromEnv() Config {
	return Config{
		Height:      envInt("HEIGHT", DefaultHeight),
		Threads:     envInt("THREADS", DefaultThreads),
		SavePath:    envString("SAVE_PATH", DefaultSavePath),
		WeightsPath: envString("WEIGHTS_PATH", DefaultWeightsPath),
		TTSizeMB:    envInt("TT_SIZE_MB", DefaultTTSizeMB),
		CPUProfile:  os.Getenv("CPUPROFILE"),
	}
}

// RegisterFlags binds flag overrides for every field of Config onto fs,
// pre-populated with cfg's current (environment-resolved) values as
// defaults. Call flag.Parse (or fs.Parse) after this, then re-read cfg.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Height, "height", cfg.Height, "playfield height")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker goroutine count")
	fs.StringVar(&cfg.SavePath, "save", cfg.SavePath, "path to the .pc solution file")
	fs.StringVar(&cfg.WeightsPath, "weights", cfg.WeightsPath, "path to the NN weight file")
	fs.IntVar(&cfg.TTSizeMB, "tt-size-mb", cfg.TTSizeMB, "transposition table size in MB")
	fs.StringVar(&cfg.CPUProfile, "cpuprofile", cfg.CPUProfile, "write cpu profile to file")
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
