package entity

import "fmt"

const MaxDimension = 5000

// Dimensions holds a width/height pair. A zero field means "unset".
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) IsSet() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

type Axis string

const (
	AxisWidth  Axis = "width"
	AxisHeight Axis = "height"
)

func (d Dimensions) Get(axis Axis) int {
	if axis == AxisHeight {
		return d.Height
	}
	return d.Width
}

func (d Dimensions) With(axis Axis, value int) Dimensions {
	if axis == AxisHeight {
		d.Height = value
	} else {
		d.Width = value
	}
	return d
}
