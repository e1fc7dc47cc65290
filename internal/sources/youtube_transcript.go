package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// YouTube transcript fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// Fallback: /next → engagement panel → /get_transcript  (works from datacenter IPs)
// Fallback: ANDROID Innertube /player → captionTracks   (works from non-blocked IPs)

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

// parseTranscriptSegments extracts timed segments from a /get_transcript JSON response.
func parseTranscriptSegments(resp ytGetTranscriptResp) []engine.TranscriptSegment {
	var segments []engine.TranscriptSegment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			r := seg.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			var sb strings.Builder
			for _, run := range r.Snippet.Runs {
				if run.Text != "" {
					if sb.Len() > 0 {
						sb.WriteByte(' ')
					}
					sb.WriteString(run.Text)
				}
			}
			if sb.Len() == 0 {
				continue
			}
			startMs, _ := strconv.ParseFloat(r.StartMs, 64)
			endMs, _ := strconv.ParseFloat(r.EndMs, 64)
			dur := (endMs - startMs) / 1000
			if dur < 0 {
				dur = 0
			}
			segments = append(segments, engine.TranscriptSegment{
				Start:    startMs / 1000,
				Duration: dur,
				Text:     sb.String(),
			})
		}
	}
	return segments
}

// fetchTranscriptViaEngagementPanel fetches a transcript via:
//  1. POST /next → get engagementPanels containing transcript continuation token
//  2. POST /get_transcript with the token → JSON segments
//
// This approach works from datacenter IPs where /player returns LOGIN_REQUIRED.
// The engagement panel exposes no track metadata, so language is unknown ("").
func fetchTranscriptViaEngagementPanel(ctx context.Context, videoID string) (engine.Transcript, error) {
	visitorData := generateVisitorData()

	nextData, err := postInnerTubeWEB(ctx, ytNextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("token: %w", err)
	}

	transcriptData, err := postInnerTubeWEB(ctx, ytGetTranscriptURL, map[string]any{
		"params": token,
		"context": map[string]any{
			"client": ytWebClientCtx{
				ClientName:    "WEB",
				ClientVersion: ytWebVersion,
				VisitorData:   visitorData,
				Hl:            "en",
				Gl:            "US",
			},
		},
	}, visitorData)
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("/get_transcript: %w", err)
	}

	var transcriptResp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &transcriptResp); err != nil {
		return engine.Transcript{}, fmt.Errorf("decode transcript: %w", err)
	}

	segments := parseTranscriptSegments(transcriptResp)
	if len(segments) == 0 {
		return engine.Transcript{}, errors.New("empty transcript segments")
	}
	return engine.Transcript{VideoID: videoID, Segments: sortSegments(segments)}, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken — those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, track captionTrack, videoID string) (engine.Transcript, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return engine.Transcript{}, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return engine.Transcript{}, err
	}

	segments, err := parseTimedText(body)
	if err != nil {
		return engine.Transcript{}, err
	}
	return engine.Transcript{
		VideoID:  videoID,
		Language: track.LanguageCode,
		AutoGen:  track.Kind == "asr",
		Segments: segments,
	}, nil
}

// parseTimedText decodes timedtext XML into cleaned, ordered segments.
func parseTimedText(body []byte) ([]engine.TranscriptSegment, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]engine.TranscriptSegment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text == "" {
			continue
		}
		segments = append(segments, engine.TranscriptSegment{
			Start:    line.Start,
			Duration: line.Dur,
			Text:     text,
		})
	}
	return sortSegments(segments), nil
}

// sortSegments orders segments by non-decreasing start time.
// Stable so equal-start lines keep their caption order.
func sortSegments(segments []engine.TranscriptSegment) []engine.TranscriptSegment {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments
}

// classifyPlayability maps a /player playability status to a domain error.
func classifyPlayability(status, reason string) error {
	switch status {
	case "ERROR":
		return fmt.Errorf("%s: %w", reason, engine.ErrVideoNotFound)
	case "LOGIN_REQUIRED", "UNPLAYABLE", "CONTENT_CHECK_REQUIRED":
		return fmt.Errorf("%s: %w", reason, engine.ErrNoCaptions)
	}
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, engine.ErrNoCaptions)
	}
	return engine.ErrNoCaptions
}

// transcriptFromPlayerResp picks a caption track from a player response and
// fetches its timedtext. Shared by the ANDROID and watch-page paths.
func transcriptFromPlayerResp(ctx context.Context, playerResp innertubePlayerResp, videoID string, langs []string) (engine.Transcript, error) {
	if playerResp.Captions == nil {
		status, reason := "", ""
		if playerResp.PlayabilityStatus != nil {
			status = playerResp.PlayabilityStatus.Status
			reason = playerResp.PlayabilityStatus.Reason
		}
		return engine.Transcript{}, classifyPlayability(status, reason)
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return engine.Transcript{}, fmt.Errorf("no caption tracks: %w", engine.ErrNoCaptions)
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return engine.Transcript{}, fmt.Errorf("all caption tracks require PoToken: %w", engine.ErrNoCaptions)
	}
	return fetchTimedText(ctx, track, videoID)
}

// fetchTranscriptViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchTranscriptViaPlayer(ctx context.Context, videoID string, langs []string) (engine.Transcript, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return engine.Transcript{}, err
	}

	if err := engine.WaitYouTube(ctx); err != nil {
		return engine.Transcript{}, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytInnertubeURL+"?prettyPrint=false", strings.NewReader(string(reqBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return engine.Transcript{}, fmt.Errorf("decode player: %w", err)
	}
	return transcriptFromPlayerResp(ctx, playerResp, videoID, langs)
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchTranscriptViaPageScrape scrapes the YouTube watch page HTML and extracts
// the caption track XML URL from ytInitialPlayerResponse. Works from any IP.
func fetchTranscriptViaPageScrape(ctx context.Context, videoID string, langs []string) (engine.Transcript, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	if err := engine.WaitYouTube(ctx); err != nil {
		return engine.Transcript{}, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return engine.Transcript{}, fmt.Errorf("read watch page: %w", err)
	}

	// Extract ytInitialPlayerResponse JSON
	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return engine.Transcript{}, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return engine.Transcript{}, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return engine.Transcript{}, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return transcriptFromPlayerResp(ctx, playerResp, videoID, langs)
}

// FetchTranscript fetches the caption transcript for a YouTube video.
// Results are cached per video+language preference; segments come back
// ordered by non-decreasing start time.
func FetchTranscript(ctx context.Context, videoID string, langs []string) (engine.Transcript, error) {
	engine.IncrTranscriptRequests()

	if t, ok := engine.CacheGetTranscript(ctx, videoID, langs); ok {
		return t, nil
	}

	t, err := fetchTranscriptUncached(ctx, videoID, langs)
	if err != nil {
		engine.IncrFetchErrors()
		return engine.Transcript{}, err
	}
	engine.CacheSetTranscript(ctx, videoID, langs, t)
	return t, nil
}

func fetchTranscriptUncached(ctx context.Context, videoID string, langs []string) (engine.Transcript, error) {
	t, err := fetchTranscriptViaPageScrape(ctx, videoID, langs)
	if err == nil {
		return t, nil
	}
	// Hard "video gone" verdicts are final; fallbacks only help with blocks.
	if errors.Is(err, engine.ErrVideoNotFound) {
		return engine.Transcript{}, err
	}
	firstErr := err
	slog.Warn("youtube: page scrape failed, trying engagement panel",
		slog.String("id", videoID), slog.Any("err", err))

	if t, err := fetchTranscriptViaEngagementPanel(ctx, videoID); err == nil {
		return t, nil
	} else {
		slog.Warn("youtube: engagement panel failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
	}

	t, err = fetchTranscriptViaPlayer(ctx, videoID, langs)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, engine.ErrNoCaptions) || errors.Is(err, engine.ErrVideoNotFound) {
		return engine.Transcript{}, err
	}
	// All three paths failed on transport-level errors; report the first.
	return engine.Transcript{}, fmt.Errorf("transcript fetch failed: %w", firstErr)
}
