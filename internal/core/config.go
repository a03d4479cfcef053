package core

import (
	"time"

	"youtubetitle/pkg/junk"
)

const (
	// DefaultServerPort is the default HTTP port for the serve command.
	DefaultServerPort = 8080
	// DefaultScanWorkers bounds how many import tasks a scan processes at once.
	DefaultScanWorkers = 4
	// DefaultSeenPaths is how many processed paths a session remembers.
	DefaultSeenPaths = 100000
	// DefaultRequestsPerMinute caps clean requests per client on the HTTP API.
	DefaultRequestsPerMinute = 600
)

// DefaultExtensions lists the file types a scan treats as music.
var DefaultExtensions = []string{".mp3", ".m4a", ".flac", ".ogg", ".opus", ".wav", ".webm"}

type Config struct {
	Inference InferenceConfig
	Cache     CacheConfig
	Server    ServerConfig
	Log       LogConfig
	Library   LibraryConfig
	Scan      ScanConfig
}

// InferenceConfig holds the two directory-layout switches.
type InferenceConfig struct {
	// ParentIsAlbum treats the track's directory as the album name.
	ParentIsAlbum bool
	// ParentParentIsArtist treats the album directory's parent as the artist name.
	ParentParentIsArtist bool
}

type CacheConfig struct {
	PatternCacheSize int
}

type ServerConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	RequestsPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
}

type LibraryConfig struct {
	// Path to the sqlite database; empty disables persistence.
	Path string
}

type ScanConfig struct {
	Workers    int
	ReadTags   bool
	SeenPaths  int
	Extensions []string
}

func DefaultConfig() *Config {
	return &Config{
		Inference: InferenceConfig{
			ParentIsAlbum:        true,
			ParentParentIsArtist: true,
		},
		Cache: CacheConfig{
			PatternCacheSize: junk.DefaultCacheSize,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Scan: ScanConfig{
			Workers:    DefaultScanWorkers,
			SeenPaths:  DefaultSeenPaths,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
	}
}
