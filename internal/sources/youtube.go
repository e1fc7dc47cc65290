package sources

// YouTube implementation is split across three files by responsibility:
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — caption fetching (watch-page scrape, engagement panel,
//                           ANDROID player fallback) returning timed segments
//   youtube_video.go      — video ID extraction, oEmbed metadata, and channel
//                           upload feeds
