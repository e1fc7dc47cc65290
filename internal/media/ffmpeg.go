package media

import (
	"fmt"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ConvertToWAV transcodes an audio file to mono 16kHz PCM WAV, the input
// format whisper models expect. The output sits next to the input so one
// Cleanup call removes both.
func ConvertToWAV(in string) (string, error) {
	out := wavPath(in)
	err := ffmpeg.Input(in).
		Output(out, ffmpeg.KwArgs{"ac": 1, "ar": 16000, "f": "wav"}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return "", fmt.Errorf("convert %s to wav: %w", in, err)
	}
	return out, nil
}

func wavPath(in string) string {
	if idx := strings.LastIndexByte(in, '.'); idx > 0 {
		return in[:idx] + ".wav"
	}
	return in + ".wav"
}
