package entity

import "errors"

var (
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrIncompatibleFormat   = errors.New("format is not compatible with the loaded file")
	ErrUnknownSizeSelection = errors.New("unknown size selection")
	ErrSizeNotApplicable    = errors.New("size selection applies to images only")
	ErrNoFileLoaded         = errors.New("no file loaded")
	ErrSessionBusy          = errors.New("session is busy")
	ErrStaleLoad            = errors.New("superseded by a newer file")
	ErrDecodeFailure        = errors.New("cannot decode image")
	ErrDecodeTimeout        = errors.New("image decode timed out")
	ErrUnsupportedEncoding  = errors.New("output format has no encoder")
	ErrSessionNotFound      = errors.New("session not found")
)

type ErrorCode string

const (
	CodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	CodeIncompatibleFormat  ErrorCode = "INCOMPATIBLE_FORMAT"
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeNoFileLoaded        ErrorCode = "NO_FILE"
	CodeBusy                ErrorCode = "BUSY"
	CodeStaleLoad           ErrorCode = "STALE_LOAD"
	CodeDecodeFailure       ErrorCode = "DECODE_FAILURE"
	CodeDecodeTimeout       ErrorCode = "DECODE_TIMEOUT"
	CodeUnsupportedEncoding ErrorCode = "UNSUPPORTED_ENCODING"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeUnknown             ErrorCode = "UNKNOWN"
)

// CodeOf classifies err into a stable code for clients.
func CodeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return CodeUnsupportedFileType
	case errors.Is(err, ErrIncompatibleFormat):
		return CodeIncompatibleFormat
	case errors.Is(err, ErrUnknownSizeSelection), errors.Is(err, ErrSizeNotApplicable):
		return CodeInvalidRequest
	case errors.Is(err, ErrNoFileLoaded):
		return CodeNoFileLoaded
	case errors.Is(err, ErrSessionBusy):
		return CodeBusy
	case errors.Is(err, ErrStaleLoad):
		return CodeStaleLoad
	case errors.Is(err, ErrDecodeTimeout):
		return CodeDecodeTimeout
	case errors.Is(err, ErrDecodeFailure):
		return CodeDecodeFailure
	case errors.Is(err, ErrUnsupportedEncoding):
		return CodeUnsupportedEncoding
	case errors.Is(err, ErrSessionNotFound):
		return CodeNotFound
	default:
		return CodeUnknown
	}
}
