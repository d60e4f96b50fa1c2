package neo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Test Plan for Database:
// - Linking puts exactly the approaches with a matching designation on each NEO
// - Linking preserves the relative order of approaches
// - Every linked approach points back to an NEO with the same designation
// - NEOs without approaches get an empty list
// - Approaches without an NEO are kept as orphans and logged
// - Duplicate designations: first NEO wins, later ones stay unlinked and are logged
// - FindByDesignation is exact and case-sensitive
// - FindByName never matches empty or absent names
// - FindByName returns the first NEO when names collide
// - FindByName finds NEOs whose designation duplicates an earlier one
// - Stats reports record counts

func strPtr(s string) *string { return &s }

func at(day string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day)
	if err != nil {
		panic(err)
	}
	return t
}

// fixture returns a small unlinked data set:
// 433 Eros (16.84 km, safe), 99942 Apophis (0.37 km, hazardous),
// 2020 AB (unnamed, unknown diameter, hazardous), 1862 Apollo (no approaches).
func fixture() ([]*NearEarthObject, []*CloseApproach) {
	neos := []*NearEarthObject{
		NewNearEarthObject("433", strPtr("Eros"), 16.84, false),
		NewNearEarthObject("99942", strPtr("Apophis"), 0.37, true),
		NewNearEarthObject("2020 AB", nil, UnknownDiameter, true),
		NewNearEarthObject("1862", strPtr("Apollo"), 1.5, true),
	}
	approaches := []*CloseApproach{
		NewCloseApproach("433", at("2024-01-01 10:00"), 0.15, 5.0),
		NewCloseApproach("99942", at("2029-04-13 21:46"), 0.00025, 7.42),
		NewCloseApproach("2020 AB", at("2024-01-01 23:59"), 0.05, 12.5),
		NewCloseApproach("433", at("2025-06-15 00:00"), 0.2, 4.1),
		NewCloseApproach("99942", at("2036-03-27 08:00"), 0.31, 8.0),
	}
	return neos, approaches
}

func TestNewDatabase_LinksApproachesToNEOs(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	db := NewDatabase(neos, approaches)

	for _, n := range neos {
		for _, a := range approaches {
			linked := false
			for _, la := range n.Approaches() {
				if la == a {
					linked = true
				}
			}
			assert.Equal(t, a.Designation() == n.Designation, linked,
				"approach %s on NEO %s", a.Designation(), n.Designation)
		}
	}

	for _, a := range db.Approaches() {
		require.NotNil(t, a.NEO())
		assert.Equal(t, a.Designation(), a.NEO().Designation)
	}
}

func TestNewDatabase_PreservesApproachOrder(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	NewDatabase(neos, approaches)

	eros := neos[0]
	require.Len(t, eros.Approaches(), 2)
	assert.Same(t, approaches[0], eros.Approaches()[0])
	assert.Same(t, approaches[3], eros.Approaches()[1])

	apophis := neos[1]
	require.Len(t, apophis.Approaches(), 2)
	assert.Same(t, approaches[1], apophis.Approaches()[0])
	assert.Same(t, approaches[4], apophis.Approaches()[1])
}

func TestNewDatabase_DoesNotReorderInputs(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	wantNEOs := append([]*NearEarthObject(nil), neos...)
	wantApproaches := append([]*CloseApproach(nil), approaches...)

	db := NewDatabase(neos, approaches)

	assert.Equal(t, wantNEOs, db.NEOs())
	assert.Equal(t, wantApproaches, db.Approaches())
}

func TestNewDatabase_NEOWithoutApproaches(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	NewDatabase(neos, approaches)

	assert.Empty(t, neos[3].Approaches())
}

func TestNewDatabase_OrphanApproaches(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	neos, approaches := fixture()
	orphan := NewCloseApproach("3200", at("2024-12-14 00:00"), 0.07, 33.0)
	approaches = append(approaches, orphan)

	db := NewDatabase(neos, approaches, WithLogger(zap.New(core)))

	assert.Nil(t, orphan.NEO())
	assert.Equal(t, []*CloseApproach{orphan}, db.Orphans())
	assert.Contains(t, db.Approaches(), orphan)

	entries := logs.FilterMessage("close approaches reference unknown NEOs").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestNewDatabase_DuplicateDesignationFirstWins(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	first := NewNearEarthObject("433", strPtr("Eros"), 16.84, false)
	second := NewNearEarthObject("433", strPtr("Eros Copy"), 1.0, true)
	a := NewCloseApproach("433", at("2024-01-01 10:00"), 0.15, 5.0)

	db := NewDatabase([]*NearEarthObject{first, second}, []*CloseApproach{a}, WithLogger(zap.New(core)))

	got, ok := db.FindByDesignation("433")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Same(t, first, a.NEO())
	assert.Len(t, first.Approaches(), 1)
	assert.Empty(t, second.Approaches())
	assert.Len(t, db.NEOs(), 2)

	// The shadowed NEO is not reachable by name either
	_, ok = db.FindByName("Eros Copy")
	assert.False(t, ok)

	assert.Equal(t, 1, logs.FilterMessage("duplicate NEO designations, keeping first occurrence").Len())
	assert.Equal(t, 1, db.Stats().Duplicates)
}

func TestDatabase_FindByDesignation(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	db := NewDatabase(neos, approaches)

	tests := []struct {
		name        string
		designation string
		want        *NearEarthObject
	}{
		{name: "numbered", designation: "433", want: neos[0]},
		{name: "provisional", designation: "2020 AB", want: neos[2]},
		{name: "case sensitive", designation: "2020 ab", want: nil},
		{name: "missing", designation: "1", want: nil},
		{name: "empty", designation: "", want: nil},
		{name: "name is not a designation", designation: "Eros", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := db.FindByDesignation(tt.designation)
			assert.Equal(t, tt.want != nil, ok)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestDatabase_FindByName(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	db := NewDatabase(neos, approaches)

	tests := []struct {
		name   string
		lookup string
		want   *NearEarthObject
	}{
		{name: "exact", lookup: "Eros", want: neos[0]},
		{name: "case sensitive", lookup: "eros", want: nil},
		{name: "empty never matches", lookup: "", want: nil},
		{name: "designation is not a name", lookup: "433", want: nil},
		{name: "unknown", lookup: "Ceres", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := db.FindByName(tt.lookup)
			assert.Equal(t, tt.want != nil, ok)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestDatabase_FindByName_EmptyNameIsAbsent(t *testing.T) {
	t.Parallel()

	blank := NewNearEarthObject("2021 XY", strPtr(""), 0.1, false)
	assert.Nil(t, blank.Name)

	// Bypass the constructor normalisation
	raw := &NearEarthObject{Designation: "2021 XZ", Name: strPtr(""), Diameter: UnknownDiameter}

	db := NewDatabase([]*NearEarthObject{blank, raw}, nil)
	_, ok := db.FindByName("")
	assert.False(t, ok)
}

func TestDatabase_FindByName_FirstMatchWins(t *testing.T) {
	t.Parallel()

	a := NewNearEarthObject("1", strPtr("Twin"), 1, false)
	b := NewNearEarthObject("2", strPtr("Twin"), 2, false)
	db := NewDatabase([]*NearEarthObject{a, b}, nil)

	got, ok := db.FindByName("Twin")
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestDatabase_FindByName_IncludesDuplicateDesignations(t *testing.T) {
	t.Parallel()

	eros := NewNearEarthObject("433", strPtr("Eros"), 16.84, false)
	shadow := NewNearEarthObject("433", strPtr("Shadow"), 2, false)
	other := NewNearEarthObject("999", strPtr("Shadow"), 3, false)
	db := NewDatabase([]*NearEarthObject{eros, shadow, other}, nil)

	got, ok := db.FindByName("Shadow")
	require.True(t, ok)
	assert.Same(t, shadow, got)

	// The designation index still belongs to the first NEO
	got, ok = db.FindByDesignation("433")
	require.True(t, ok)
	assert.Same(t, eros, got)

	db = NewDatabase([]*NearEarthObject{
		NewNearEarthObject("433", strPtr("Eros"), 16.84, false),
		NewNearEarthObject("433", strPtr("Shadow"), 2, false),
	}, nil)
	got, ok = db.FindByName("Shadow")
	require.True(t, ok)
	assert.Equal(t, 2.0, got.Diameter)
}

func TestDatabase_Stats(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	approaches = append(approaches, NewCloseApproach("nope", at("2024-01-01 00:00"), 1, 1))
	db := NewDatabase(neos, approaches)

	assert.Equal(t, Stats{NEOs: 4, Approaches: 6, Orphans: 1, Duplicates: 0}, db.Stats())
}

func TestNearEarthObject_String(t *testing.T) {
	t.Parallel()

	neos, _ := fixture()
	assert.Equal(t, "NEO 433 (Eros) has a diameter of 16.840 km and is not potentially hazardous.", neos[0].String())
	assert.Equal(t, "NEO 2020 AB has an unknown diameter and is potentially hazardous.", neos[2].String())
	assert.Equal(t, "433 (Eros)", neos[0].FullName())
	assert.Equal(t, "2020 AB", neos[2].FullName())
	assert.False(t, neos[2].HasDiameter())
	assert.True(t, neos[0].HasDiameter())
}

func TestCloseApproach_String(t *testing.T) {
	t.Parallel()

	neos, approaches := fixture()
	assert.Equal(t, "On 2024-01-01 10:00, '433' approaches Earth at a distance of 0.15 au and a velocity of 5.00 km/s.",
		approaches[0].String())

	NewDatabase(neos, approaches)
	assert.Equal(t, "On 2024-01-01 10:00, '433 (Eros)' approaches Earth at a distance of 0.15 au and a velocity of 5.00 km/s.",
		approaches[0].String())
}
