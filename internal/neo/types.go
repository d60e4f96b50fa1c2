package neo

import (
	"fmt"
	"math"
	"time"
)

// UnknownDiameter marks an NEO whose diameter is not in the source catalog.
// It is NaN, so every ordered comparison against it is false.
var UnknownDiameter = math.NaN()

// TimeLayout is the layout used when rendering approach timestamps.
const TimeLayout = "2006-01-02 15:04"

// NearEarthObject is a catalogued body that passes near Earth.
type NearEarthObject struct {
	Designation string  // Primary designation, unique per database
	Name        *string // IAU name, nil when the body is unnamed
	Diameter    float64 // Kilometers, UnknownDiameter when not measured
	Hazardous   bool
	approaches  []*CloseApproach
}

// NewNearEarthObject creates an unlinked NEO. An empty name is stored as absent.
func NewNearEarthObject(designation string, name *string, diameter float64, hazardous bool) *NearEarthObject {
	if name != nil && *name == "" {
		name = nil
	}
	return &NearEarthObject{
		Designation: designation,
		Name:        name,
		Diameter:    diameter,
		Hazardous:   hazardous,
	}
}

// HasName reports whether the NEO carries a non-empty name.
func (n *NearEarthObject) HasName() bool {
	return n.Name != nil && *n.Name != ""
}

// HasDiameter reports whether the diameter is known.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// Approaches returns the close approaches linked to this NEO, in source order.
// The slice is shared with the database and must not be modified.
func (n *NearEarthObject) Approaches() []*CloseApproach {
	return n.approaches
}

// FullName returns "designation (name)", or just the designation for unnamed bodies.
func (n *NearEarthObject) FullName() string {
	if n.HasName() {
		return fmt.Sprintf("%s (%s)", n.Designation, *n.Name)
	}
	return n.Designation
}

func (n *NearEarthObject) String() string {
	hazard := "is not"
	if n.Hazardous {
		hazard = "is"
	}
	if !n.HasDiameter() {
		return fmt.Sprintf("NEO %s has an unknown diameter and %s potentially hazardous.", n.FullName(), hazard)
	}
	return fmt.Sprintf("NEO %s has a diameter of %.3f km and %s potentially hazardous.", n.FullName(), n.Diameter, hazard)
}

// CloseApproach is one recorded pass of an NEO near Earth.
type CloseApproach struct {
	Time     time.Time // UTC
	Distance float64   // Nominal approach distance in au
	Velocity float64   // Velocity relative to Earth in km/s

	designation string
	neo         *NearEarthObject
}

// NewCloseApproach creates an unlinked close approach referencing the NEO with
// the given designation.
func NewCloseApproach(designation string, t time.Time, distance, velocity float64) *CloseApproach {
	return &CloseApproach{
		Time:        t.UTC(),
		Distance:    distance,
		Velocity:    velocity,
		designation: designation,
	}
}

// Designation returns the designation of the NEO this approach refers to.
func (a *CloseApproach) Designation() string {
	return a.designation
}

// NEO returns the linked NEO, or nil if no NEO with the approach's designation
// was supplied to the database.
func (a *CloseApproach) NEO() *NearEarthObject {
	return a.neo
}

// TimeString renders the approach time as "YYYY-MM-DD hh:mm".
func (a *CloseApproach) TimeString() string {
	return a.Time.Format(TimeLayout)
}

func (a *CloseApproach) String() string {
	who := a.designation
	if a.neo != nil {
		who = a.neo.FullName()
	}
	return fmt.Sprintf("On %s, '%s' approaches Earth at a distance of %.2f au and a velocity of %.2f km/s.",
		a.TimeString(), who, a.Distance, a.Velocity)
}

// date truncates t to its UTC calendar day.
func date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
