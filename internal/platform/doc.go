package platform

// Package platform contains OS and external tooling glue: filesystem
// helpers, the yt-dlp backed fetcher, variant selection presets, and
// playlist expansion.
