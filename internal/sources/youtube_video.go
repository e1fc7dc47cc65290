package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/mmcdole/gofeed"
)

// Video ID extraction, oEmbed metadata, and channel upload feeds.

const (
	ytOEmbedURL      = "https://www.youtube.com/oembed"
	ytChannelFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id="
)

var (
	videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|live/|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareIDRE  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format.
// A bare 11-char ID passes through unchanged. Returns ErrInvalidVideoURL
// when nothing recognizable is found.
func ExtractVideoID(input string) (string, error) {
	if bareIDRE.MatchString(input) {
		return input, nil
	}
	if m := videoIDRE.FindStringSubmatch(input); len(m) >= 2 {
		return m[1], nil
	}
	return "", fmt.Errorf("%q: %w", input, engine.ErrInvalidVideoURL)
}

type oEmbedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
}

// FetchVideoInfo returns lightweight video metadata via the oEmbed endpoint.
// oEmbed needs no API key and returns 404 for missing or private videos.
func FetchVideoInfo(ctx context.Context, videoID string) (engine.VideoInfo, error) {
	params := url.Values{}
	params.Set("url", "https://www.youtube.com/watch?v="+videoID)
	params.Set("format", "json")

	if err := engine.WaitYouTube(ctx); err != nil {
		return engine.VideoInfo{}, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytOEmbedURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.VideoInfo{}, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden:
		return engine.VideoInfo{}, fmt.Errorf("oembed %d: %w", resp.StatusCode, engine.ErrVideoNotFound)
	default:
		return engine.VideoInfo{}, fmt.Errorf("oembed HTTP %d", resp.StatusCode)
	}

	var oe oEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return engine.VideoInfo{}, fmt.Errorf("decode oembed: %w", err)
	}
	return engine.VideoInfo{
		ID:         videoID,
		Title:      oe.Title,
		Author:     oe.AuthorName,
		ChannelURL: oe.AuthorURL,
	}, nil
}

// FetchChannelVideos lists a channel's recent uploads from its RSS feed.
// The feed is public, keyless, and capped at 15 entries by YouTube.
func FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]engine.ChannelVideo, error) {
	engine.IncrFeedRequests()
	if limit <= 0 || limit > 15 {
		limit = 15
	}

	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}
	parser := gofeed.NewParser()
	parser.UserAgent = engine.UserAgentBot
	feed, err := parser.ParseURLWithContext(ytChannelFeedURL+url.QueryEscape(channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("channel feed: %w", err)
	}

	videos := make([]engine.ChannelVideo, 0, limit)
	for _, item := range feed.Items {
		if len(videos) >= limit {
			break
		}
		id, err := ExtractVideoID(item.Link)
		if err != nil {
			continue
		}
		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC().Format(time.RFC3339)
		}
		videos = append(videos, engine.ChannelVideo{
			ID:        id,
			Title:     item.Title,
			URL:       item.Link,
			Published: published,
		})
	}
	return videos, nil
}
