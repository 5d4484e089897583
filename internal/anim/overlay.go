package anim

import (
	"fmt"
	"strconv"
)

// Labels configures the wording of the mutable overlay lines.
type Labels struct {
	Period     string // "Month"
	Cumulative string // "Year Distance"
	Unit       string // "km"
}

// Overlay is the stats panel: two static fields set once, three mutable
// fields overwritten on every frame.
type Overlay struct {
	Title  string
	Legend string
	Labels Labels

	PeriodName         string
	PeriodDistance     float64
	CumulativeDistance float64

	hasName      bool
	hasDistances bool
}

// NewOverlay returns an overlay with only its static fields set.
func NewOverlay(title, legend string, labels Labels) Overlay {
	return Overlay{Title: title, Legend: legend, Labels: labels}
}

// SetPeriod overwrites the period name. Any string, including "", is taken
// as the name.
func (o Overlay) SetPeriod(name string) Overlay {
	o.PeriodName = name
	o.hasName = true
	return o
}

// SetDistances overwrites both distance fields.
func (o Overlay) SetDistances(period, cumulative float64) Overlay {
	o.PeriodDistance = period
	o.CumulativeDistance = cumulative
	o.hasDistances = true
	return o
}

// FormatDistance renders a distance with one decimal.
func FormatDistance(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func (o Overlay) PeriodText() string {
	if !o.hasName {
		return ""
	}
	return fmt.Sprintf("%s: %s", o.Labels.Period, o.PeriodName)
}

func (o Overlay) PeriodDistanceText() string {
	if !o.hasDistances {
		return ""
	}
	return fmt.Sprintf("%s Distance: %s %s", o.Labels.Period, FormatDistance(o.PeriodDistance), o.Labels.Unit)
}

func (o Overlay) CumulativeText() string {
	if !o.hasDistances {
		return ""
	}
	return fmt.Sprintf("%s: %s %s", o.Labels.Cumulative, FormatDistance(o.CumulativeDistance), o.Labels.Unit)
}

// Lines returns the five panel lines top to bottom.
func (o Overlay) Lines() [5]string {
	return [5]string{o.Title, o.PeriodText(), o.PeriodDistanceText(), o.CumulativeText(), o.Legend}
}
