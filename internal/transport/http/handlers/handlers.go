package handlers

import (
	"mime"

	"github.com/Stefan-Allen/fileconverter/internal/domain/ports"
	"github.com/Stefan-Allen/fileconverter/internal/usecases"
)

// displayNameLength is how many characters of a file name the session view
// shows before eliding.
const displayNameLength = 20

// Uploads without a usable Content-Type are classified by extension. The
// platform tables rarely know audio containers.
var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".wma":  "audio/x-ms-wma",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".ico":  "image/x-icon",
}

func init() {
	for ext, typ := range extensionTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

type HTTPHandlers struct {
	ConversionUseCase *usecases.ConversionUseCase
	Settings          ports.SettingsProvider
	MaxUploadBytes    int64
}

func NewHTTPHandlers(settings ports.SettingsProvider, maxUploadBytes int64) *HTTPHandlers {
	return &HTTPHandlers{
		ConversionUseCase: usecases.NewConversionUseCase(settings),
		Settings:          settings,
		MaxUploadBytes:    maxUploadBytes,
	}
}
