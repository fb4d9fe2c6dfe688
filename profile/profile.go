package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/pflag"
)

// ErrStarted is returned when a [Session] is started twice.
var ErrStarted = errors.New("profiling already started")

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	CPU  string
	Heap string
}

// Config holds profile output paths. Empty paths disable a profile.
type Config struct {
	Flags Flags
	CPU   string
	Heap  string
}

// NewConfig returns a [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			CPU:  "cpu-profile",
			Heap: "heap-profile",
		},
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPU, c.Flags.CPU, "", "write a CPU profile of the run to file")
	flags.StringVar(&c.Heap, c.Flags.Heap, "", "write a heap profile at the end of the run to file")
}

// NewSession creates a [Session] writing the profiles named by c.
func (c *Config) NewSession() *Session {
	return &Session{cpuPath: c.CPU, heapPath: c.Heap}
}

// Session is one profiled run.
type Session struct {
	cpuFile  *os.File
	cpuPath  string
	heapPath string
	started  bool
}

// Start begins CPU profiling when enabled.
func (s *Session) Start() error {
	if s.started {
		return ErrStarted
	}

	if s.cpuPath != "" {
		f, err := os.Create(s.cpuPath) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return errors.Join(fmt.Errorf("start CPU profile: %w", err), f.Close())
		}

		s.cpuFile = f
	}

	s.started = true

	return nil
}

// Stop ends CPU profiling and writes the heap profile. It does nothing for
// a session that was not started, and may be called more than once.
func (s *Session) Stop() error {
	if !s.started {
		return nil
	}

	s.started = false

	var errs []error

	if s.cpuFile != nil {
		pprof.StopCPUProfile()

		err := s.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}

		s.cpuFile = nil
	}

	if s.heapPath != "" {
		err := writeHeap(s.heapPath)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}

	runtime.GC()

	err = pprof.Lookup("heap").WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write heap profile: %w", err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close heap profile: %w", err)
	}

	return nil
}
