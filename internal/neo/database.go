package neo

import (
	"go.uber.org/zap"
)

// Database links NEOs with their close approaches and answers lookups and
// queries over the linked set. It is read-only after NewDatabase returns and
// may be shared between goroutines.
type Database struct {
	neos       []*NearEarthObject
	approaches []*CloseApproach

	// Indexes built once at construction
	byDesignation map[string]*NearEarthObject
	byName        map[string]*NearEarthObject

	orphans    []*CloseApproach
	duplicates []*NearEarthObject
}

// Stats summarizes a linked database.
type Stats struct {
	NEOs       int `json:"neos"`
	Approaches int `json:"approaches"`
	Orphans    int `json:"orphans"`    // Approaches with no matching NEO
	Duplicates int `json:"duplicates"` // NEOs shadowed by an earlier one with the same designation
}

// Option configures a Database.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report linking anomalies.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase links the supplied NEOs and close approaches and builds the
// lookup indexes.
//
// The records are linked in place: each NEO's approaches are set to the
// approaches with a matching designation in their original order, and each of
// those approaches points back at the NEO. The inputs must be unlinked.
//
// When several NEOs share a designation the first one wins: it is indexed and
// receives every matching approach, later ones keep an empty approach list.
// Approaches with no matching NEO are kept with a nil NEO and reported by
// Orphans.
func NewDatabase(neos []*NearEarthObject, approaches []*CloseApproach, opts ...Option) *Database {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	db := &Database{
		neos:          neos,
		approaches:    approaches,
		byDesignation: make(map[string]*NearEarthObject, len(neos)),
		byName:        make(map[string]*NearEarthObject),
	}

	for _, n := range neos {
		// Names index every NEO, duplicate designations included
		if n.HasName() {
			if _, exists := db.byName[*n.Name]; !exists {
				db.byName[*n.Name] = n
			}
		}

		if _, exists := db.byDesignation[n.Designation]; exists {
			db.duplicates = append(db.duplicates, n)
			continue
		}
		db.byDesignation[n.Designation] = n
	}

	for _, a := range approaches {
		n, ok := db.byDesignation[a.designation]
		if !ok {
			db.orphans = append(db.orphans, a)
			continue
		}
		n.approaches = append(n.approaches, a)
		a.neo = n
	}

	if len(db.duplicates) > 0 {
		o.logger.Warn("duplicate NEO designations, keeping first occurrence",
			zap.Int("count", len(db.duplicates)),
			zap.String("first", db.duplicates[0].Designation))
	}
	if len(db.orphans) > 0 {
		o.logger.Warn("close approaches reference unknown NEOs",
			zap.Int("count", len(db.orphans)),
			zap.String("first", db.orphans[0].designation))
	}
	o.logger.Debug("linked database",
		zap.Int("neos", len(neos)),
		zap.Int("approaches", len(approaches)))

	return db
}

// FindByDesignation returns the NEO with exactly the given primary designation.
func (db *Database) FindByDesignation(designation string) (*NearEarthObject, bool) {
	n, ok := db.byDesignation[designation]
	return n, ok
}

// FindByName returns the first NEO, in input order, with exactly the given
// name. Unnamed NEOs never match, so an empty name is never found.
func (db *Database) FindByName(name string) (*NearEarthObject, bool) {
	if name == "" {
		return nil, false
	}
	n, ok := db.byName[name]
	return n, ok
}

// NEOs returns every NEO in input order, duplicates included.
func (db *Database) NEOs() []*NearEarthObject {
	return db.neos
}

// Approaches returns every close approach in input order.
func (db *Database) Approaches() []*CloseApproach {
	return db.approaches
}

// Orphans returns the approaches whose designation matched no NEO.
func (db *Database) Orphans() []*CloseApproach {
	return db.orphans
}

// Stats returns record counts for the database.
func (db *Database) Stats() Stats {
	return Stats{
		NEOs:       len(db.neos),
		Approaches: len(db.approaches),
		Orphans:    len(db.orphans),
		Duplicates: len(db.duplicates),
	}
}
