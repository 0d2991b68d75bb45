package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config file lookup
const (
	ConfigName    = "ytgrab"
	ConfigHomeDir = "$HOME/.config/ytgrab"
)

// Settings keys
const (
	KeyDownloadsDir        = "downloads_dir"
	KeyTempDir             = "temp_dir"
	KeyFilenameTemplate    = "filename_template"
	KeyRetries             = "retries"
	KeyFragmentRetries     = "fragment_retries"
	KeyConcurrentFragments = "concurrent_fragments"
	KeySocketTimeout       = "socket_timeout"
	KeyBufferSize          = "buffer_size"
	KeyLongVideoThreshold  = "long_video_threshold"
	KeyListenAddr          = "listen_addr"
	KeyMaxJobs             = "max_jobs"
	KeyJobTTL              = "job_ttl"
	KeySubmitRate          = "submit_rate"
	KeySubmitBurst         = "submit_burst"
	KeyLogLevel            = "log_level"
	KeyLogFile             = "log_file"
	KeyLogFileSize         = "log_file_size"
)

// Default values
const (
	DefaultDownloadsDir        = "downloads"
	DefaultTempDir             = "temp_downloads"
	DefaultFilenameTemplate    = "%(title)s.%(ext)s"
	DefaultRetries             = 10
	DefaultFragmentRetries     = 10
	DefaultConcurrentFragments = 4
	DefaultSocketTimeout       = 300 * time.Second
	DefaultBufferSize          = "16M"
	DefaultLongVideoThreshold  = 1800 * time.Second
	DefaultListenAddr          = ":8501"
	DefaultMaxJobs             = 2
	DefaultJobTTL              = 30 * time.Minute
	DefaultSubmitRate          = 1.0
	DefaultSubmitBurst         = 3
	DefaultLogLevel            = "info"
	DefaultLogFileSize         = 10
)

// Settings is the application configuration
type Settings struct {
	DownloadsDir        string        `mapstructure:"downloads_dir"`
	TempDir             string        `mapstructure:"temp_dir"`
	FilenameTemplate    string        `mapstructure:"filename_template"`
	Retries             int           `mapstructure:"retries"`
	FragmentRetries     int           `mapstructure:"fragment_retries"`
	ConcurrentFragments int           `mapstructure:"concurrent_fragments"`
	SocketTimeout       time.Duration `mapstructure:"socket_timeout"`
	BufferSize          string        `mapstructure:"buffer_size"`
	LongVideoThreshold  time.Duration `mapstructure:"long_video_threshold"`
	ListenAddr          string        `mapstructure:"listen_addr"`
	MaxJobs             int           `mapstructure:"max_jobs"`
	JobTTL              time.Duration `mapstructure:"job_ttl"`
	SubmitRate          float64       `mapstructure:"submit_rate"`
	SubmitBurst         int           `mapstructure:"submit_burst"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFile             string        `mapstructure:"log_file"`
	LogFileSize         int           `mapstructure:"log_file_size"`
}

// Loader reads Settings from an optional config file
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. An empty path searches the working directory
// and ~/.config/ytgrab for ytgrab.{yaml,json,toml}.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigHomeDir)
	}
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDownloadsDir, DefaultDownloadsDir)
	v.SetDefault(KeyTempDir, DefaultTempDir)
	v.SetDefault(KeyFilenameTemplate, DefaultFilenameTemplate)
	v.SetDefault(KeyRetries, DefaultRetries)
	v.SetDefault(KeyFragmentRetries, DefaultFragmentRetries)
	v.SetDefault(KeyConcurrentFragments, DefaultConcurrentFragments)
	v.SetDefault(KeySocketTimeout, DefaultSocketTimeout)
	v.SetDefault(KeyBufferSize, DefaultBufferSize)
	v.SetDefault(KeyLongVideoThreshold, DefaultLongVideoThreshold)
	v.SetDefault(KeyListenAddr, DefaultListenAddr)
	v.SetDefault(KeyMaxJobs, DefaultMaxJobs)
	v.SetDefault(KeyJobTTL, DefaultJobTTL)
	v.SetDefault(KeySubmitRate, DefaultSubmitRate)
	v.SetDefault(KeySubmitBurst, DefaultSubmitBurst)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogFileSize, DefaultLogFileSize)
}

// Load reads the config file if present and returns validated settings.
// A missing file in the search path is not an error.
func (l *Loader) Load() (*Settings, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.decode()
}

// ConfigFile returns the path of the loaded config file, if any
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads settings when the config file changes and passes them to fn.
// Invalid reloads are reported through onError and leave fn uncalled.
func (l *Loader) Watch(fn func(*Settings), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		s, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		fn(s)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Settings, error) {
	s := &Settings{}
	err := l.v.Unmarshal(s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	s.normalize()
	return s, nil
}

// normalize clamps values to sane ranges
func (s *Settings) normalize() {
	if s.FilenameTemplate == "" {
		s.FilenameTemplate = DefaultFilenameTemplate
	}
	if s.Retries < 0 {
		s.Retries = 0
	}
	if s.FragmentRetries < 0 {
		s.FragmentRetries = 0
	}
	if s.ConcurrentFragments < 1 {
		s.ConcurrentFragments = 1
	}
	if s.MaxJobs < 1 {
		s.MaxJobs = 1
	}
	if s.MaxJobs > 10 {
		s.MaxJobs = 10
	}
	if s.SubmitRate <= 0 {
		s.SubmitRate = DefaultSubmitRate
	}
	if s.SubmitBurst < 1 {
		s.SubmitBurst = 1
	}
	if s.JobTTL <= 0 {
		s.JobTTL = DefaultJobTTL
	}
	if s.LongVideoThreshold <= 0 {
		s.LongVideoThreshold = DefaultLongVideoThreshold
	}
}

// Default returns settings populated with default values only
func Default() *Settings {
	s, err := NewLoader("").decode()
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return s
}
