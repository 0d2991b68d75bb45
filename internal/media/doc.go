package media

// Package media wraps the external media tools the engine relies on. It checks
// that ffmpeg and ffprobe are installed, probes finished files for their
// duration, and reads or fills ID3 tags on transcoded MP3 output.
