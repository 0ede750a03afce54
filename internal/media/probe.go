package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"stationd/internal/logger"
)

// Timeout for a single probe execution
const probeTimeout = 30 * time.Second

// Probe errors
var (
	// ErrProbeFailed indicates the external probe returned an empty or
	// unparsable duration
	ErrProbeFailed = errors.New("probe could not read media duration")
)

// Prober obtains media durations by running the external probe binary. It
// prints a single duration in seconds on success and nothing on failure.
type Prober struct {
	probePath string
}

// NewProber creates a prober that invokes the given binary
func NewProber(probePath string) *Prober {
	return &Prober{probePath: probePath}
}

// Duration probes the duration of the media file at path, in seconds
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.probePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			logger.Log.Error().
				Str("path", path).
				Str("stderr", string(exitErr.Stderr)).
				Msg("Probe execution failed")
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrProbeFailed, path, err)
	}

	duration, err := parseProbeOutput(string(output))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, path)
	}

	logger.Log.Debug().
		Str("path", path).
		Float64("duration_seconds", duration).
		Msg("Media duration probed")

	return duration, nil
}

// parseProbeOutput parses the single numeric duration the probe prints.
// Empty output means the probe could not read the file.
func parseProbeOutput(out string) (float64, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, ErrProbeFailed
	}

	duration, err := strconv.ParseFloat(out, 64)
	if err != nil || duration < 0 {
		return 0, fmt.Errorf("%w: unparsable probe output %q", ErrProbeFailed, out)
	}

	return duration, nil
}
