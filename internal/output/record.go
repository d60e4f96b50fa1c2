package output

import (
	"strconv"

	"github.com/mvp-joe/project-neo/internal/neo"
)

// Record is the serialized form of a close approach. Unknown values are nil
// so that they encode as null.
type Record struct {
	DateTimeUTC string    `json:"datetime_utc" yaml:"datetime_utc"`
	DistanceAU  float64   `json:"distance_au" yaml:"distance_au"`
	VelocityKmS float64   `json:"velocity_km_s" yaml:"velocity_km_s"`
	NEO         NEORecord `json:"neo" yaml:"neo"`
}

// NEORecord is the serialized form of a near-Earth object.
type NEORecord struct {
	Designation          string   `json:"designation" yaml:"designation"`
	Name                 *string  `json:"name" yaml:"name"`
	DiameterKm           *float64 `json:"diameter_km" yaml:"diameter_km"`
	PotentiallyHazardous *bool    `json:"potentially_hazardous" yaml:"potentially_hazardous"`
}

// columns is the flat column order shared by CSV, XLSX, PDF and SQLite output.
var columns = []string{
	"datetime_utc",
	"distance_au",
	"velocity_km_s",
	"designation",
	"name",
	"diameter_km",
	"potentially_hazardous",
}

// NewRecord converts an approach. Orphan approaches keep their designation
// and leave the NEO attributes unknown.
func NewRecord(a *neo.CloseApproach) Record {
	rec := Record{
		DateTimeUTC: a.TimeString(),
		DistanceAU:  a.Distance,
		VelocityKmS: a.Velocity,
		NEO:         NewNEORecord(a.NEO()),
	}
	rec.NEO.Designation = a.Designation()
	return rec
}

// NewNEORecord converts a NEO; nil yields a record with only unknowns.
func NewNEORecord(n *neo.NearEarthObject) NEORecord {
	if n == nil {
		return NEORecord{}
	}
	hazardous := n.Hazardous
	rec := NEORecord{
		Designation:          n.Designation,
		Name:                 n.Name,
		PotentiallyHazardous: &hazardous,
	}
	if n.HasDiameter() {
		d := n.Diameter
		rec.DiameterKm = &d
	}
	return rec
}

// fields flattens the record into column strings. Unknown diameters are
// written as "nan" and unknown names as an empty string.
func (r Record) fields() []string {
	name := ""
	if r.NEO.Name != nil {
		name = *r.NEO.Name
	}
	diameter := "nan"
	if r.NEO.DiameterKm != nil {
		diameter = strconv.FormatFloat(*r.NEO.DiameterKm, 'f', -1, 64)
	}
	hazardous := ""
	if r.NEO.PotentiallyHazardous != nil {
		hazardous = strconv.FormatBool(*r.NEO.PotentiallyHazardous)
	}

	return []string{
		r.DateTimeUTC,
		strconv.FormatFloat(r.DistanceAU, 'f', -1, 64),
		strconv.FormatFloat(r.VelocityKmS, 'f', -1, 64),
		r.NEO.Designation,
		name,
		diameter,
		hazardous,
	}
}

// values is the typed row used by spreadsheet and database output.
func (r Record) values() []any {
	var name, diameter, hazardous any
	if r.NEO.Name != nil {
		name = *r.NEO.Name
	}
	if r.NEO.DiameterKm != nil {
		diameter = *r.NEO.DiameterKm
	}
	if r.NEO.PotentiallyHazardous != nil {
		hazardous = *r.NEO.PotentiallyHazardous
	}

	return []any{
		r.DateTimeUTC,
		r.DistanceAU,
		r.VelocityKmS,
		r.NEO.Designation,
		name,
		diameter,
		hazardous,
	}
}
