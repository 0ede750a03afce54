// Package player builds and drives the external media player process.
package player

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"stationd/internal/config"
	"stationd/internal/logger"
)

// Player launches the external media player for one media file at a time and
// waits for its natural exit. There is no timeout and no cancellation of an
// in-progress playback; the player is configured to exit when playback
// completes, and anything else is handled by terminating the whole process.
type Player struct {
	cfg config.PlayerConfig
}

// New creates a player from the configured invocation settings
func New(cfg config.PlayerConfig) *Player {
	return &Player{cfg: cfg}
}

// BuildArgs assembles the player's argument vector: pre-args, then the media
// path, then post-args. Arguments are passed directly to the process with no
// shell involved, so the media path needs no quoting.
func BuildArgs(cfg config.PlayerConfig, mediaPath string) []string {
	args := make([]string, 0, len(cfg.PreArgs)+1+len(cfg.PostArgs))
	args = append(args, cfg.PreArgs...)
	args = append(args, mediaPath)
	args = append(args, cfg.PostArgs...)
	return args
}

// Play runs the player to completion for the given media file. A non-zero
// exit is returned as an error; the caller decides whether that is fatal.
func (p *Player) Play(mediaPath string) error {
	args := BuildArgs(p.cfg, mediaPath)
	cmd := exec.Command(p.cfg.Path, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	go capturePlayerOutput(cmd.Process.Pid, stdout, "stdout")
	go capturePlayerOutput(cmd.Process.Pid, stderr, "stderr")

	logger.Log.Info().
		Int("pid", cmd.Process.Pid).
		Str("player", p.cfg.Path).
		Str("media", mediaPath).
		Msg("Player process launched")

	err = cmd.Wait()
	elapsed := time.Since(start)

	if err != nil {
		return fmt.Errorf("player exited abnormally after %s: %w", elapsed.Round(time.Second), err)
	}

	logger.Log.Info().
		Int("pid", cmd.Process.Pid).
		Dur("elapsed", elapsed).
		Str("media", mediaPath).
		Msg("Player process exited")

	return nil
}

// capturePlayerOutput logs player output line by line. Players report normal
// progress on stderr, so everything defaults to debug level and only lines
// that look like errors are raised to error level.
func capturePlayerOutput(pid int, reader io.Reader, streamName string) {
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := scanner.Text()
		if looksLikeError(line) {
			logger.Log.Error().
				Int("player_pid", pid).
				Str("stream", streamName).
				Str("output", line).
				Msg("Player error")
		} else {
			logger.Log.Debug().
				Int("player_pid", pid).
				Str("stream", streamName).
				Str("output", line).
				Msg("Player output")
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Log.Warn().
			Err(err).
			Int("player_pid", pid).
			Str("stream", streamName).
			Msg("Error reading player output")
	}
}

// looksLikeError checks if a log line contains error indicators
func looksLikeError(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "error") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "fatal")
}
