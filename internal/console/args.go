package console

// Args holds CLI arguments parsed by go-arg. Every flag is optional; missing
// values are prompted for interactively.
type Args struct {
	URL     string `arg:"positional" help:"video URL; prompted for when omitted"`
	Quality *int   `arg:"-q,--quality" help:"quality menu number, 0 = best available (skips the menu prompt)"`
	Audio   bool   `arg:"-a,--audio" help:"extract MP3 audio instead of video"`
	Bitrate string `arg:"-b,--bitrate" default:"192kbps" help:"MP3 bitrate for --audio, e.g. 320kbps"`
	Dir     string `arg:"-d,--dir" help:"output directory [default: ./downloads]"`
	Config  string `arg:"-c,--config" help:"path to a ytgrab config file"`
	Verbose bool   `arg:"-v,--verbose" help:"enable debug logging"`
}

// Description provides custom help text for go-arg
func (Args) Description() string {
	return "Download a video or its audio track with yt-dlp.\n"
}

// BuildVersion is set by the binary during build
var BuildVersion = "dev"

// Version implements the go-arg Versioned interface
func (Args) Version() string {
	return "ytgrab " + BuildVersion
}
