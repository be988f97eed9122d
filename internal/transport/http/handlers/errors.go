package handlers

import (
	"errors"
	"net/http"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	pkgerrors "github.com/Stefan-Allen/fileconverter/pkg/errors"
	pkgjson "github.com/Stefan-Allen/fileconverter/pkg/json"
	"github.com/Stefan-Allen/fileconverter/pkg/reqmeta"
)

type errorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []pkgerrors.ErrorEntity `json:"fields,omitempty"`
}

type errorResp struct {
	Error errorBody `json:"error"`
}

func statusOf(code entity.ErrorCode) int {
	switch code {
	case entity.CodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case entity.CodeIncompatibleFormat, entity.CodeDecodeFailure, entity.CodeUnsupportedEncoding:
		return http.StatusUnprocessableEntity
	case entity.CodeDecodeTimeout:
		return http.StatusGatewayTimeout
	case entity.CodeStaleLoad, entity.CodeBusy, entity.CodeNoFileLoaded:
		return http.StatusConflict
	case entity.CodeNotFound:
		return http.StatusNotFound
	case entity.CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *pkgerrors.ValidationError
	if errors.As(err, &ve) {
		pkgjson.WriteJSON(w, http.StatusBadRequest, errorResp{Error: errorBody{
			Code:    string(entity.CodeInvalidRequest),
			Message: ve.Error(),
			Fields:  ve.Errors,
		}})
		return
	}

	code := entity.CodeOf(err)
	status := statusOf(code)

	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		reqmeta.Logger(r.Context()).Error("request failed", "error", err)
	}

	pkgjson.WriteJSON(w, status, errorResp{Error: errorBody{
		Code:    string(code),
		Message: err.Error(),
	}})
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, pkgerrors.NewValidationError("body", message))
}
