package ports

import "github.com/Stefan-Allen/fileconverter/internal/domain/entity"

//go:generate mockgen -source=settings_provider.go -destination=mocks/mock_settings_provider.go -package=mocks

type SettingsProvider interface {
	Settings() entity.ConversionSettings
}
