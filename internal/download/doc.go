package download

// Package download implements the transfer pipeline built on top of yt-dlp.
// A Service walks one request through metadata, format resolution, transfer
// and output location, reporting state changes and progress to the caller.
