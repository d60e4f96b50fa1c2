package neo

import (
	"strconv"
	"strings"
	"time"
)

// Filters holds the optional criteria of a close-approach query. A nil field
// imposes no constraint; every non-nil field must hold for an approach to match.
// All bounds are inclusive and date fields compare only the UTC calendar day.
type Filters struct {
	Date      *time.Time `json:"date,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	DistanceMin *float64 `json:"distance_min,omitempty"`
	DistanceMax *float64 `json:"distance_max,omitempty"`
	VelocityMin *float64 `json:"velocity_min,omitempty"`
	VelocityMax *float64 `json:"velocity_max,omitempty"`

	// NEO attributes. Orphan approaches never satisfy these.
	DiameterMin *float64 `json:"diameter_min,omitempty"`
	DiameterMax *float64 `json:"diameter_max,omitempty"`
	Hazardous   *bool    `json:"hazardous,omitempty"`
}

// Empty reports whether no criteria are set.
func (f Filters) Empty() bool {
	return f.Date == nil && f.StartDate == nil && f.EndDate == nil &&
		f.DistanceMin == nil && f.DistanceMax == nil &&
		f.VelocityMin == nil && f.VelocityMax == nil &&
		f.DiameterMin == nil && f.DiameterMax == nil &&
		f.Hazardous == nil
}

// Match reports whether the approach satisfies every supplied criterion.
func (f Filters) Match(a *CloseApproach) bool {
	if f.Date != nil || f.StartDate != nil || f.EndDate != nil {
		day := date(a.Time)
		if f.Date != nil && !day.Equal(date(*f.Date)) {
			return false
		}
		if f.StartDate != nil && day.Before(date(*f.StartDate)) {
			return false
		}
		if f.EndDate != nil && day.After(date(*f.EndDate)) {
			return false
		}
	}

	if f.DistanceMin != nil && !(a.Distance >= *f.DistanceMin) {
		return false
	}
	if f.DistanceMax != nil && !(a.Distance <= *f.DistanceMax) {
		return false
	}
	if f.VelocityMin != nil && !(a.Velocity >= *f.VelocityMin) {
		return false
	}
	if f.VelocityMax != nil && !(a.Velocity <= *f.VelocityMax) {
		return false
	}

	if f.DiameterMin == nil && f.DiameterMax == nil && f.Hazardous == nil {
		return true
	}
	n := a.neo
	if n == nil {
		return false
	}
	// NaN diameters fail both comparisons.
	if f.DiameterMin != nil && !(n.Diameter >= *f.DiameterMin) {
		return false
	}
	if f.DiameterMax != nil && !(n.Diameter <= *f.DiameterMax) {
		return false
	}
	if f.Hazardous != nil && n.Hazardous != *f.Hazardous {
		return false
	}
	return true
}

// Key returns a canonical string for the filters, equal for equal criteria.
func (f Filters) Key() string {
	var b strings.Builder
	writeDate := func(name string, t *time.Time) {
		if t != nil {
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(date(*t).Format(time.DateOnly))
			b.WriteByte(';')
		}
	}
	writeFloat := func(name string, v *float64) {
		if v != nil {
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
			b.WriteByte(';')
		}
	}

	writeDate("date", f.Date)
	writeDate("start_date", f.StartDate)
	writeDate("end_date", f.EndDate)
	writeFloat("distance_min", f.DistanceMin)
	writeFloat("distance_max", f.DistanceMax)
	writeFloat("velocity_min", f.VelocityMin)
	writeFloat("velocity_max", f.VelocityMax)
	writeFloat("diameter_min", f.DiameterMin)
	writeFloat("diameter_max", f.DiameterMax)
	if f.Hazardous != nil {
		b.WriteString("hazardous=")
		b.WriteString(strconv.FormatBool(*f.Hazardous))
		b.WriteByte(';')
	}
	return b.String()
}
