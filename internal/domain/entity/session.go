package entity

import "time"

type SessionState int

const (
	Idle SessionState = iota
	Loading
	FileLoaded
	Converting
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Loading:
		return "LOADING"
	case FileLoaded:
		return "FILE_LOADED"
	case Converting:
		return "CONVERTING"
	default:
		return "UNKNOWN"
	}
}

// ConversionSession is everything one client has selected for a single file.
// LoadSeq increases on every load attempt; a decode result is only committed
// while it still matches. FileSeq is the LoadSeq that committed File.
type ConversionSession struct {
	ID              string
	State           SessionState
	LoadSeq         uint64
	FileSeq         uint64
	ConvertInFlight bool
	File            *SourceFile
	Category        FileCategory
	Original        Dimensions
	Custom          Dimensions
	Size            SizeSelection
	Format          OutputFormat
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ExpiresAt       time.Time
}

// SettledState is the state a session returns to when an abandoned load
// releases it.
func (s *ConversionSession) SettledState() SessionState {
	switch {
	case s.File == nil:
		return Idle
	case s.ConvertInFlight:
		return Converting
	default:
		return FileLoaded
	}
}

func (s *ConversionSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ConversionSettings are the live knobs the orchestrator reads on every
// operation.
type ConversionSettings struct {
	Presets              []Preset
	Supersample          bool
	Quality              map[OutputFormat]int
	MaxSupersamplePixels int
	MaxSourcePixels      int
	DecodeTimeout        time.Duration
	SessionTTL           time.Duration
}

// RasterOptions controls a single rasterization.
type RasterOptions struct {
	Supersample          bool
	Quality              int
	MaxSupersamplePixels int
	MaxSourcePixels      int
}
