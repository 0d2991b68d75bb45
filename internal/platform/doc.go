package platform

// Package platform contains OS and external tooling glue: the yt-dlp engine
// adapter, parsing of the engine's info JSON, and filesystem helpers that
// locate, size and clean up downloaded files.
