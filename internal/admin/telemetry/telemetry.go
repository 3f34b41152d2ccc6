// Package telemetry captures point-in-time host and process metrics for the
// admin dashboard.
package telemetry

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	osReleasePath = "/etc/os-release"
	meminfoPath   = "/proc/meminfo"
)

// Snapshot is a best-effort capture of host and process metrics. String
// fields are empty when they could not be read; MemoryOK reports whether the
// memory pair is valid.
type Snapshot struct {
	OS              string
	OSVersion       string
	Architecture    string
	Uptime          time.Duration
	MemoryAvailable uint64
	MemoryTotal     uint64
	MemoryOK        bool
	PID             int
}

// Collector reads host metrics. Process uptime is measured from the moment
// the collector is constructed, which happens once during startup.
type Collector struct {
	start         time.Time
	osReleasePath string
	meminfoPath   string
	logger        zerolog.Logger
}

func NewCollector(logger zerolog.Logger) *Collector {
	return &Collector{
		start:         time.Now(),
		osReleasePath: osReleasePath,
		meminfoPath:   meminfoPath,
		logger:        logger,
	}
}

// Snapshot collects every field independently. A field that cannot be read
// on this host is left at its zero value without failing the others. The
// host file reads are skipped once ctx expires; the process-local fields are
// always filled.
func (c *Collector) Snapshot(ctx context.Context) Snapshot {
	s := Snapshot{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		Uptime:       time.Since(c.start),
		PID:          os.Getpid(),
	}
	if s.Uptime < 0 {
		s.Uptime = 0
	}

	if err := ctx.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("skipping host file reads")
		return s
	}

	version, err := readOSVersion(c.osReleasePath)
	if err != nil {
		c.logger.Warn().Err(err).Msg("unable to read os version")
	} else {
		s.OSVersion = version
	}

	if err := ctx.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("skipping memory read")
		return s
	}

	available, total, err := readMemory(c.meminfoPath)
	if err != nil {
		c.logger.Warn().Err(err).Msg("unable to read memory info")
	} else {
		s.MemoryAvailable = available
		s.MemoryTotal = total
		s.MemoryOK = true
	}

	return s
}

func readOSVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open os-release: %w", err)
	}
	defer f.Close()

	return parseOSRelease(f)
}

// parseOSRelease extracts PRETTY_NAME from os-release formatted input,
// falling back to NAME when PRETTY_NAME is absent.
func parseOSRelease(r io.Reader) (string, error) {
	var name string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)

		switch key {
		case "PRETTY_NAME":
			return value, nil
		case "NAME":
			name = value
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan os-release: %w", err)
	}

	if name == "" {
		return "", fmt.Errorf("os-release has no PRETTY_NAME or NAME entry")
	}
	return name, nil
}

func readMemory(path string) (available, total uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open meminfo: %w", err)
	}
	defer f.Close()

	return parseMeminfo(f)
}

// parseMeminfo extracts MemAvailable and MemTotal (reported in kB) from
// /proc/meminfo formatted input and returns them in bytes. Available is
// clamped to total.
func parseMeminfo(r io.Reader) (available, total uint64, err error) {
	var haveAvailable, haveTotal bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		var target *uint64
		switch fields[0] {
		case "MemAvailable:":
			target, haveAvailable = &available, true
		case "MemTotal:":
			target, haveTotal = &total, true
		default:
			continue
		}

		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("parse meminfo %s: %w", fields[0], err)
		}
		*target = kb * 1024

		if haveAvailable && haveTotal {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("scan meminfo: %w", err)
	}

	if !haveAvailable || !haveTotal {
		return 0, 0, fmt.Errorf("meminfo is missing MemAvailable or MemTotal")
	}
	if available > total {
		available = total
	}
	return available, total, nil
}
