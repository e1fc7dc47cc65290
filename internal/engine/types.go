package engine

// --- Core transcript types ---

// TranscriptSegment is a single timed caption line.
// Start and Duration are in seconds. Segments are ordered by
// non-decreasing Start and immutable once a fetch returns.
type TranscriptSegment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Transcript is the result of one caption fetch for one video.
type Transcript struct {
	VideoID  string              `json:"video_id"`
	Language string              `json:"language"`       // BCP-47 code of the fetched track
	AutoGen  bool                `json:"auto_generated"` // true for ASR tracks
	Segments []TranscriptSegment `json:"segments"`
}

// Text joins all segment texts with single spaces.
func (t Transcript) Text() string {
	total := 0
	for _, s := range t.Segments {
		total += len(s.Text) + 1
	}
	buf := make([]byte, 0, total)
	for _, s := range t.Segments {
		if s.Text == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// VideoInfo is lightweight video metadata from oEmbed.
type VideoInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	ChannelURL string `json:"channel_url,omitempty"`
}

// ChannelVideo is one entry from a channel's upload feed.
type ChannelVideo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published,omitempty"`
}

// --- Translation types ---

// TranslationResult is the output of one translate call. Transient,
// discarded after display.
type TranslationResult struct {
	TargetLanguage string `json:"target_language"`
	DetectedSource string `json:"detected_source,omitempty"`
	Text           string `json:"text"`
	Provider       string `json:"provider"` // "google" or "llm"
}

// --- Speech types ---

// SpeechSegment is a timed span from the speech model.
type SpeechSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SpeechResult is the output of the audio transcription/translation path.
type SpeechResult struct {
	Language string          `json:"language,omitempty"` // detected source language
	Text     string          `json:"text"`
	Segments []SpeechSegment `json:"segments,omitempty"`
}
