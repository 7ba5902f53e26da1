// Package audio shells out to ffmpeg to normalize uploaded clips into the
// mono 16 kHz PCM form the transcription API expects.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrConversion marks a failed ffmpeg invocation. Handlers map it to a
// generic 500 without exposing ffmpeg's output to the caller.
var ErrConversion = errors.New("audio conversion failed")

// Converter normalizes uploaded clips via an external ffmpeg binary.
type Converter struct {
	Bin     string // ffmpeg binary name or path
	TempDir string // defaults to the OS temp dir
}

func NewConverter(bin string) *Converter {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Converter{Bin: bin, TempDir: os.TempDir()}
}

// SaveUpload writes the uploaded clip to a request-unique temp file, keeping
// the original extension so ffmpeg can sniff the container.
func (c *Converter) SaveUpload(src io.Reader, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "webm"
	}
	path := filepath.Join(c.TempDir, fmt.Sprintf("clip-%s.%s", uuid.NewString(), ext))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

// ToWAV converts the clip at inputPath to mono 16 kHz 16-bit PCM and returns
// the new file's path.
func (c *Converter) ToWAV(ctx context.Context, inputPath string) (string, error) {
	out := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".wav"
	cmd := exec.CommandContext(ctx, c.Bin,
		"-y", "-i", inputPath,
		"-ar", "16000",
		"-ac", "1",
		"-acodec", "pcm_s16le",
		out,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrConversion, err, output)
	}
	return out, nil
}

// IsSilent runs ffmpeg's silencedetect filter over the WAV and reports
// whether the clip is silent from start to finish. Partial silence is not
// detected; this only catches clips where a silence interval opens and never
// closes before end of stream.
func (c *Converter) IsSilent(ctx context.Context, wavPath string) (bool, error) {
	cmd := exec.CommandContext(ctx, c.Bin,
		"-i", wavPath,
		"-af", "silencedetect=noise=-35dB:d=0.5",
		"-f", "null", "-",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("silencedetect: %v: %s", err, output)
	}
	return silentFromLog(string(output)), nil
}

// silentFromLog reads silencedetect's diagnostic lines. A silence_start with
// no silence_end means the interval ran through the end of the clip.
func silentFromLog(log string) bool {
	return strings.Contains(log, "silence_start") && !strings.Contains(log, "silence_end")
}

// Cleanup removes the given temp files, ignoring paths that are already gone.
func Cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		os.Remove(p)
	}
}
