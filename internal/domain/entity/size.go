package entity

import "fmt"

type SizeKind int

const (
	SizeCurrent SizeKind = iota
	SizePreset
	SizeCustom
)

type Preset struct {
	Label  string `yaml:"label" json:"label"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Token is the wire value of the preset, e.g. "1024x1024".
func (p Preset) Token() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

func (p Preset) Dimensions() Dimensions {
	return Dimensions{Width: p.Width, Height: p.Height}
}

type SizeSelection struct {
	Kind   SizeKind
	Preset Preset
}

var (
	SelectCurrent = SizeSelection{Kind: SizeCurrent}
	SelectCustom  = SizeSelection{Kind: SizeCustom}
)

func SelectPreset(p Preset) SizeSelection {
	return SizeSelection{Kind: SizePreset, Preset: p}
}

func (s SizeSelection) String() string {
	switch s.Kind {
	case SizePreset:
		return s.Preset.Token()
	case SizeCustom:
		return "custom"
	default:
		return "current"
	}
}

var BasicPresets = []Preset{
	{Label: "1024x1024", Width: 1024, Height: 1024},
	{Label: "2048x2048", Width: 2048, Height: 2048},
}

var MarketingPresets = []Preset{
	{Label: "Thumbnail", Width: 150, Height: 150},
	{Label: "Profile Picture", Width: 400, Height: 400},
	{Label: "Instagram Post", Width: 1080, Height: 1080},
	{Label: "Facebook Link Preview", Width: 1200, Height: 630},
	{Label: "Twitter Post", Width: 1200, Height: 675},
	{Label: "Web Content", Width: 800, Height: 600},
	{Label: "Website Header", Width: 1920, Height: 1080},
	{Label: "A4 Print", Width: 3000, Height: 2400},
	{Label: "Letter Print", Width: 3600, Height: 2400},
	{Label: "High-Resolution", Width: 4000, Height: 3000},
}
