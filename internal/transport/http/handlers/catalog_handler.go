package handlers

import (
	"net/http"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	pkgjson "github.com/Stefan-Allen/fileconverter/pkg/json"
)

type presetDTO struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Token  string `json:"token"`
}

type catalogResp struct {
	Accept       []string            `json:"accept"`
	Formats      map[string][]string `json:"formats"`
	Sizes        []string            `json:"sizes"`
	Presets      []presetDTO         `json:"presets"`
	MaxDimension int                 `json:"max_dimension"`
	Supersample  bool                `json:"supersample"`
}

func formatStrings(formats []entity.OutputFormat) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, string(f))
	}
	return out
}

// Catalog lists what the service accepts and can produce.
func (h *HTTPHandlers) Catalog(w http.ResponseWriter, r *http.Request) {
	settings := h.Settings.Settings()

	resp := catalogResp{
		Accept: append([]string(nil), entity.AcceptedImageTypes...),
		Formats: map[string][]string{
			entity.CategoryImage.String(): formatStrings(entity.CompatibleFormats(entity.CategoryImage)),
			entity.CategoryAudio.String(): formatStrings(entity.CompatibleFormats(entity.CategoryAudio)),
		},
		Presets:      make([]presetDTO, 0, len(settings.Presets)),
		MaxDimension: entity.MaxDimension,
		Supersample:  settings.Supersample,
	}

	resp.Sizes = append(resp.Sizes, entity.SelectCurrent.String())
	for _, p := range settings.Presets {
		resp.Presets = append(resp.Presets, presetDTO{Label: p.Label, Width: p.Width, Height: p.Height, Token: p.Token()})
		resp.Sizes = append(resp.Sizes, p.Token())
	}
	resp.Sizes = append(resp.Sizes, entity.SelectCustom.String())

	pkgjson.WriteJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	pkgjson.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
