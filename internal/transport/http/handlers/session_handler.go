package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Stefan-Allen/fileconverter/internal/domain/dimension"
	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	"github.com/Stefan-Allen/fileconverter/internal/domain/filename"
	pkgerrors "github.com/Stefan-Allen/fileconverter/pkg/errors"
	pkgjson "github.com/Stefan-Allen/fileconverter/pkg/json"
)

const uploadField = "file"

type dimensionsDTO struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type fileDTO struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	Category    string `json:"category"`
}

type sessionDTO struct {
	ID                string         `json:"id"`
	State             string         `json:"state"`
	File              *fileDTO       `json:"file,omitempty"`
	Original          *dimensionsDTO `json:"original,omitempty"`
	Custom            *dimensionsDTO `json:"custom,omitempty"`
	Target            *dimensionsDTO `json:"target,omitempty"`
	Size              string         `json:"size,omitempty"`
	Format            string         `json:"format,omitempty"`
	CompatibleFormats []string       `json:"compatible_formats,omitempty"`
	ExpiresAt         *time.Time     `json:"expires_at,omitempty"`
}

func toDimensionsDTO(d entity.Dimensions) *dimensionsDTO {
	return &dimensionsDTO{Width: d.Width, Height: d.Height}
}

// targetDimensions is what a conversion would produce right now.
func targetDimensions(s entity.ConversionSession) entity.Dimensions {
	return dimension.Resolve(s.Size, s.Original, s.Custom)
}

func toSessionDTO(s entity.ConversionSession) sessionDTO {
	dto := sessionDTO{
		ID:    s.ID,
		State: s.State.String(),
	}
	if !s.ExpiresAt.IsZero() {
		expires := s.ExpiresAt
		dto.ExpiresAt = &expires
	}

	if s.File == nil {
		return dto
	}

	dto.File = &fileDTO{
		Name:        s.File.Metadata.Name,
		DisplayName: filename.Truncate(s.File.Metadata.Name, displayNameLength),
		MimeType:    s.File.Metadata.MimeType,
		Size:        s.File.Metadata.Size,
		Category:    s.Category.String(),
	}
	dto.Format = string(s.Format)
	for _, f := range entity.CompatibleFormats(s.Category) {
		dto.CompatibleFormats = append(dto.CompatibleFormats, string(f))
	}

	if s.Category == entity.CategoryImage {
		dto.Original = toDimensionsDTO(s.Original)
		dto.Custom = toDimensionsDTO(s.Custom)
		dto.Target = toDimensionsDTO(targetDimensions(s))
		dto.Size = s.Size.String()
	}

	return dto
}

type selectSizeReq struct {
	Selection string `json:"selection"`
}

func (req *selectSizeReq) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Selection, validation.Required),
	)
}

type editCustomReq struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

func (req *editCustomReq) Validate() error {
	if req.Width == nil && req.Height == nil {
		return pkgerrors.NewValidationError("width", "width or height is required")
	}
	return nil
}

type selectFormatReq struct {
	Format string `json:"format"`
}

func (req *selectFormatReq) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Format, validation.Required),
	)
}

func (h *HTTPHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.ConversionUseCase.CreateSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+session.ID)
	pkgjson.WriteJSON(w, http.StatusCreated, toSessionDTO(session))
}

func (h *HTTPHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.ConversionUseCase.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkgjson.WriteJSON(w, http.StatusOK, toSessionDTO(session))
}

func (h *HTTPHandlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.ConversionUseCase.DeleteSession(r.Context(), sessionID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadFile loads the multipart field "file" into the session.
func (h *HTTPHandlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	part, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", http.StatusRequestEntityTooLarge)
			return
		}
		badRequest(w, r, "multipart field \""+uploadField+"\" is required")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		badRequest(w, r, "cannot read upload: "+err.Error())
		return
	}

	file := entity.SourceFile{
		Metadata: entity.FileMetadata{
			Name:     filepath.Base(header.Filename),
			MimeType: declaredType(header.Header.Get("Content-Type"), header.Filename),
			Size:     int64(len(data)),
		},
		Data: data,
	}

	session, err := h.ConversionUseCase.LoadFile(r.Context(), sessionID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkgjson.WriteJSON(w, http.StatusOK, toSessionDTO(session))
}

// declaredType trusts the part's Content-Type unless it is missing or
// generic, in which case the extension decides.
func declaredType(contentType, name string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return contentType
}

// GetFile serves the loaded source for preview.
func (h *HTTPHandlers) GetFile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	file, err := h.ConversionUseCase.Source(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeBytes(w, file.Metadata.MimeType, "inline", file.Metadata.Name, file.Data)
}

func (h *HTTPHandlers) SelectSize(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req selectSizeReq
	if err := pkgjson.DecodeStrict(r.Body, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := pkgerrors.FromValidatable(&req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.ConversionUseCase.SelectSize(r.Context(), sessionID, req.Selection)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkgjson.WriteJSON(w, http.StatusOK, toSessionDTO(session))
}

func (h *HTTPHandlers) EditCustomSize(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req editCustomReq
	if err := pkgjson.DecodeStrict(r.Body, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		session entity.ConversionSession
		err     error
	)
	if req.Width != nil {
		session, err = h.ConversionUseCase.EditCustomDimension(r.Context(), sessionID, entity.AxisWidth, *req.Width)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.Height != nil {
		session, err = h.ConversionUseCase.EditCustomDimension(r.Context(), sessionID, entity.AxisHeight, *req.Height)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	pkgjson.WriteJSON(w, http.StatusOK, toSessionDTO(session))
}

func (h *HTTPHandlers) SelectFormat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req selectFormatReq
	if err := pkgjson.DecodeStrict(r.Body, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := pkgerrors.FromValidatable(&req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.ConversionUseCase.SelectFormat(r.Context(), sessionID, entity.OutputFormat(req.Format))
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkgjson.WriteJSON(w, http.StatusOK, toSessionDTO(session))
}

// Convert responds with the converted file as an attachment.
func (h *HTTPHandlers) Convert(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.ConversionUseCase.Convert(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeBytes(w, result.MimeType, "attachment", result.Name, result.Data)
}

func writeBytes(w http.ResponseWriter, mimeType, disposition, name string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(data)
}
