package neo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilters_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, Filters{}.Empty())
	assert.False(t, Filters{Hazardous: boolPtr(false)}.Empty())
	assert.False(t, Filters{EndDate: day("2020-01-01")}.Empty())
	assert.False(t, Filters{DiameterMax: f64(0)}.Empty())
}

func TestFilters_Key(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Filters{}.Key())

	a := Filters{DistanceMax: f64(0.1), Hazardous: boolPtr(true), StartDate: day("2020-01-01")}
	noon := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	b := Filters{StartDate: &noon, Hazardous: boolPtr(true), DistanceMax: f64(0.1)}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "start_date=2020-01-01;distance_max=0.1;hazardous=true;", a.Key())
	assert.NotEqual(t, a.Key(), Filters{DistanceMin: f64(0.1)}.Key())
}

func TestFilters_Match_EveryPredicateChecked(t *testing.T) {
	t.Parallel()

	n := NewNearEarthObject("1", nil, 2.0, true)
	a := NewCloseApproach("1", at("2024-05-05 05:05"), 0.5, 10)
	NewDatabase([]*NearEarthObject{n}, []*CloseApproach{a})

	all := Filters{
		Date:        day("2024-05-05"),
		StartDate:   day("2024-05-05"),
		EndDate:     day("2024-05-05"),
		DistanceMin: f64(0.5),
		DistanceMax: f64(0.5),
		VelocityMin: f64(10),
		VelocityMax: f64(10),
		DiameterMin: f64(2),
		DiameterMax: f64(2),
		Hazardous:   boolPtr(true),
	}
	assert.True(t, all.Match(a))

	// Breaking any single predicate rejects the approach
	breakers := []func(*Filters){
		func(f *Filters) { f.Date = day("2024-05-06") },
		func(f *Filters) { f.StartDate = day("2024-05-06") },
		func(f *Filters) { f.EndDate = day("2024-05-04") },
		func(f *Filters) { f.DistanceMin = f64(0.51) },
		func(f *Filters) { f.DistanceMax = f64(0.49) },
		func(f *Filters) { f.VelocityMin = f64(10.1) },
		func(f *Filters) { f.VelocityMax = f64(9.9) },
		func(f *Filters) { f.DiameterMin = f64(2.1) },
		func(f *Filters) { f.DiameterMax = f64(1.9) },
		func(f *Filters) { f.Hazardous = boolPtr(false) },
	}
	for i, mutate := range breakers {
		f := all
		mutate(&f)
		assert.False(t, f.Match(a), "breaker %d", i)
	}
}
