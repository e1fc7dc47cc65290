// Package media downloads video audio and converts it for speech recognition.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// DownloadAudio fetches the audio stream of a video with yt-dlp and returns
// the path of the resulting m4a file. The caller owns the file and should
// remove its directory when done.
func DownloadAudio(ctx context.Context, videoID string) (string, error) {
	ytdlp := engine.Cfg.YtDlpPath
	if ytdlp == "" {
		ytdlp = "yt-dlp"
	}

	workDir := engine.Cfg.AudioWorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	dir, err := os.MkdirTemp(workDir, "audio-"+videoID+"-")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	out := filepath.Join(dir, videoID+".m4a")
	args := downloadArgs(videoID, out, false)

	engine.IncrAudioDownloads()
	slog.Info("downloading audio", "video_id", videoID, "out", out)

	err = engine.TrackOperation(ctx, "audio download "+videoID, func(ctx context.Context) error {
		err := runYtDlp(ctx, ytdlp, args)
		if err == nil {
			return nil
		}
		// Age-gated and some region-locked videos only serve the
		// android player client.
		slog.Warn("yt-dlp failed, retrying with android client", "video_id", videoID, "error", err)
		return runYtDlp(ctx, ytdlp, downloadArgs(videoID, out, true))
	})
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("download audio for %s: %w", videoID, err)
	}

	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		os.RemoveAll(dir)
		return "", fmt.Errorf("download audio for %s: empty output: %w", videoID, engine.ErrServiceUnavailable)
	}
	return out, nil
}

// downloadArgs builds the yt-dlp invocation. bestaudio keeps the transfer
// small; m4a avoids a remux that whisper backends cannot read.
func downloadArgs(videoID, out string, androidClient bool) []string {
	args := []string{
		"--quiet",
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio[ext=m4a]/bestaudio/best",
		"-x", "--audio-format", "m4a",
		"-o", out,
	}
	if androidClient {
		args = append(args, "--extractor-args", "youtube:player_client=android")
	}
	args = append(args, "https://www.youtube.com/watch?v="+videoID)
	return args
}

func runYtDlp(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("yt-dlp: %s: %w", engine.Truncate(msg, 300), err)
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// Cleanup removes the temp directory holding an audio file returned by
// DownloadAudio or ConvertToWAV.
func Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		slog.Warn("audio cleanup failed", "path", path, "error", err)
	}
}
