package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stefan-Allen/fileconverter/internal/domain/dimension"
	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	"github.com/Stefan-Allen/fileconverter/internal/domain/filename"
	"github.com/Stefan-Allen/fileconverter/internal/domain/ports"
	"github.com/Stefan-Allen/fileconverter/internal/infra/raster"
	repository "github.com/Stefan-Allen/fileconverter/internal/infra/repository/memory"
	"github.com/Stefan-Allen/fileconverter/pkg/reqmeta"
)

// supersampleQuality is the lossy quality used when drawing at double density.
const supersampleQuality = 95

type ConversionUseCase struct {
	SessionRepository ports.SessionRepository
	Rasterizer        ports.Rasterizer
	Settings          ports.SettingsProvider
	Now               func() time.Time
}

func NewConversionUseCase(settings ports.SettingsProvider) *ConversionUseCase {
	return &ConversionUseCase{
		SessionRepository: repository.NewSessionMemoryRepository(),
		Rasterizer:        raster.NewRasterizer(),
		Settings:          settings,
		Now:               time.Now,
	}
}

func (u *ConversionUseCase) touch(s *entity.ConversionSession, settings entity.ConversionSettings) {
	if settings.SessionTTL > 0 {
		s.ExpiresAt = u.Now().Add(settings.SessionTTL)
	}
}

// requireSettled rejects edits unless a file is loaded and nothing is in flight.
func requireSettled(s *entity.ConversionSession) error {
	switch s.State {
	case entity.FileLoaded:
		return nil
	case entity.Idle:
		return entity.ErrNoFileLoaded
	default:
		return fmt.Errorf("%w: %s", entity.ErrSessionBusy, s.State.String())
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (u *ConversionUseCase) CreateSession(ctx context.Context) (entity.ConversionSession, error) {
	settings := u.Settings.Settings()

	session := entity.ConversionSession{State: entity.Idle}
	u.touch(&session, settings)

	return u.SessionRepository.Create(ctx, session)
}

func (u *ConversionUseCase) GetSession(ctx context.Context, sessionID string) (entity.ConversionSession, error) {
	return u.SessionRepository.Get(ctx, sessionID)
}

// DeleteSession drops the session and the file buffer it holds.
func (u *ConversionUseCase) DeleteSession(ctx context.Context, sessionID string) error {
	return u.SessionRepository.Delete(ctx, sessionID)
}

// Source returns the loaded file for preview.
func (u *ConversionUseCase) Source(ctx context.Context, sessionID string) (entity.SourceFile, error) {
	session, err := u.SessionRepository.Get(ctx, sessionID)
	if err != nil {
		return entity.SourceFile{}, err
	}
	if session.File == nil {
		return entity.SourceFile{}, entity.ErrNoFileLoaded
	}
	return *session.File, nil
}

// LoadFile replaces whatever the session holds with file. Images are decoded
// once to learn their natural size; a load that is overtaken by a newer one
// while decoding is discarded with ErrStaleLoad.
func (u *ConversionUseCase) LoadFile(ctx context.Context, sessionID string, file entity.SourceFile) (entity.ConversionSession, error) {
	log := reqmeta.Logger(ctx).With("session_id", sessionID, "file", file.Metadata.Name)

	category := file.Category()
	if category == entity.CategoryUnsupported {
		log.Info("rejected upload", "mime", file.Metadata.MimeType)
		return entity.ConversionSession{}, fmt.Errorf("%w: %q", entity.ErrUnsupportedFileType, file.Metadata.MimeType)
	}

	settings := u.Settings.Settings()

	var token uint64
	if _, err := u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		s.LoadSeq++
		token = s.LoadSeq
		s.State = entity.Loading
		return nil
	}); err != nil {
		return entity.ConversionSession{}, err
	}

	var natural entity.Dimensions
	if category == entity.CategoryImage {
		decodeCtx, cancel := withTimeout(ctx, settings.DecodeTimeout)
		dims, err := u.Rasterizer.Decode(decodeCtx, file.Data, settings.MaxSourcePixels)
		cancel()
		if err != nil {
			log.Warn("decode failed", "error", err)
			u.abandonLoad(ctx, sessionID, token)
			return entity.ConversionSession{}, err
		}
		natural = dims
	}

	if file.Metadata.Size == 0 {
		file.Metadata.Size = int64(len(file.Data))
	}
	loaded := file

	session, err := u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		if s.LoadSeq != token {
			return entity.ErrStaleLoad
		}

		s.File = &loaded
		s.FileSeq = token
		s.ConvertInFlight = false
		s.Category = category
		s.Original = natural
		s.Custom = natural
		s.Size = entity.SelectCurrent
		s.Format = entity.DefaultFormat(category)
		s.State = entity.FileLoaded
		u.touch(s, settings)
		return nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrStaleLoad) {
			log.Info("load superseded", "token", token)
		}
		return entity.ConversionSession{}, err
	}

	log.Info("file loaded", "category", category.String(), "size", natural.String(), "bytes", file.Metadata.Size)
	return session, nil
}

// abandonLoad settles the session after a failed decode, unless a newer load
// already owns it.
func (u *ConversionUseCase) abandonLoad(ctx context.Context, sessionID string, token uint64) {
	_, _ = u.SessionRepository.Mutate(context.WithoutCancel(ctx), sessionID, func(s *entity.ConversionSession) error {
		if s.LoadSeq != token {
			return entity.ErrStaleLoad
		}
		s.State = s.SettledState()
		return nil
	})
}

// SelectSize sets the size selection from its wire token.
func (u *ConversionUseCase) SelectSize(ctx context.Context, sessionID, token string) (entity.ConversionSession, error) {
	settings := u.Settings.Settings()

	selection, err := dimension.ParseSelection(token, settings.Presets)
	if err != nil {
		return entity.ConversionSession{}, err
	}

	return u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		if err := requireSettled(s); err != nil {
			return err
		}
		if s.Category != entity.CategoryImage {
			return entity.ErrSizeNotApplicable
		}

		s.Size = selection
		switch selection.Kind {
		case entity.SizeCurrent:
			s.Custom = s.Original
		case entity.SizePreset:
			s.Custom = entity.Dimensions{}
		}
		u.touch(s, settings)
		return nil
	})
}

// EditCustomDimension stores one custom axis. Out of range values are
// replaced by the natural size of that axis without reporting an error.
func (u *ConversionUseCase) EditCustomDimension(ctx context.Context, sessionID string, axis entity.Axis, value int) (entity.ConversionSession, error) {
	settings := u.Settings.Settings()

	return u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		if err := requireSettled(s); err != nil {
			return err
		}
		if s.Category != entity.CategoryImage {
			return entity.ErrSizeNotApplicable
		}

		s.Custom = s.Custom.With(axis, dimension.ValidateDimension(value, s.Original.Get(axis)))
		u.touch(s, settings)
		return nil
	})
}

func (u *ConversionUseCase) SelectFormat(ctx context.Context, sessionID string, format entity.OutputFormat) (entity.ConversionSession, error) {
	settings := u.Settings.Settings()
	format = entity.OutputFormat(strings.ToLower(strings.TrimSpace(string(format))))

	return u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		if err := requireSettled(s); err != nil {
			return err
		}
		if !entity.IsCompatible(s.Category, format) {
			return fmt.Errorf("%w: %q for %s", entity.ErrIncompatibleFormat, format, s.Category)
		}

		s.Format = format
		u.touch(s, settings)
		return nil
	})
}

// Convert renders the loaded file with the current selections. The session is
// in Converting for the duration and back in FileLoaded afterwards. A load
// started meanwhile only invalidates the result once it commits a new file.
func (u *ConversionUseCase) Convert(ctx context.Context, sessionID string) (entity.ConversionResult, error) {
	settings := u.Settings.Settings()
	log := reqmeta.Logger(ctx).With("session_id", sessionID)

	var snapshot entity.ConversionSession
	if _, err := u.SessionRepository.Mutate(ctx, sessionID, func(s *entity.ConversionSession) error {
		if err := requireSettled(s); err != nil {
			return err
		}
		if !entity.IsCompatible(s.Category, s.Format) {
			return fmt.Errorf("%w: %q for %s", entity.ErrIncompatibleFormat, s.Format, s.Category)
		}

		s.State = entity.Converting
		s.ConvertInFlight = true
		snapshot = *s
		return nil
	}); err != nil {
		return entity.ConversionResult{}, err
	}

	started := u.Now()
	result, convErr := u.produce(ctx, snapshot, settings)

	_, settleErr := u.SessionRepository.Mutate(context.WithoutCancel(ctx), sessionID, func(s *entity.ConversionSession) error {
		if s.FileSeq != snapshot.FileSeq {
			return entity.ErrStaleLoad
		}
		s.ConvertInFlight = false
		if s.State == entity.Converting {
			s.State = entity.FileLoaded
		}
		u.touch(s, settings)
		return nil
	})

	if convErr != nil {
		log.Warn("conversion failed", "format", string(snapshot.Format), "error", convErr)
		return entity.ConversionResult{}, convErr
	}
	if settleErr != nil {
		return entity.ConversionResult{}, settleErr
	}

	log.Info("conversion done",
		"name", result.Name,
		"bytes", len(result.Data),
		"took", u.Now().Sub(started).String())
	return result, nil
}

func (u *ConversionUseCase) produce(ctx context.Context, s entity.ConversionSession, settings entity.ConversionSettings) (entity.ConversionResult, error) {
	file := s.File

	switch s.Category {
	case entity.CategoryAudio:
		// Relabel only: the bytes are the input unchanged.
		return entity.ConversionResult{
			Name:     filename.DeriveAudioName(file.Metadata.Name, string(s.Format)),
			MimeType: s.Format.MimeType(entity.CategoryAudio),
			Data:     bytes.Clone(file.Data),
		}, nil

	case entity.CategoryImage:
		dims := dimension.Resolve(s.Size, s.Original, s.Custom)
		opts := entity.RasterOptions{
			Supersample:          settings.Supersample,
			Quality:              qualityFor(settings, s.Format),
			MaxSupersamplePixels: settings.MaxSupersamplePixels,
			MaxSourcePixels:      settings.MaxSourcePixels,
		}

		rasterCtx, cancel := withTimeout(ctx, settings.DecodeTimeout)
		defer cancel()

		data, err := u.Rasterizer.Rasterize(rasterCtx, file.Data, dims, s.Format, opts)
		if err != nil {
			return entity.ConversionResult{}, err
		}

		return entity.ConversionResult{
			Name:     filename.DeriveName(file.Metadata.Name, dims.Width, dims.Height, string(s.Format)),
			MimeType: s.Format.MimeType(entity.CategoryImage),
			Data:     data,
		}, nil

	default:
		return entity.ConversionResult{}, entity.ErrUnsupportedFileType
	}
}

// qualityFor picks the encoder quality: configured value first, then the high
// quality setting in supersample mode, else 0 for the encoder default.
func qualityFor(settings entity.ConversionSettings, format entity.OutputFormat) int {
	if q, ok := settings.Quality[format]; ok {
		return q
	}
	if settings.Supersample {
		return supersampleQuality
	}
	return 0
}

// SweepExpired releases sessions whose TTL has passed.
func (u *ConversionUseCase) SweepExpired(ctx context.Context) (int, error) {
	return u.SessionRepository.DeleteExpired(ctx, u.Now())
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (u *ConversionUseCase) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := u.SweepExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				reqmeta.Logger(ctx).Warn("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				reqmeta.Logger(ctx).Info("expired sessions released", "count", removed)
			}
		}
	}
}
