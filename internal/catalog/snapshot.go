package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ManuGH/availwin/internal/rights"
)

// ErrVideoNotFound is returned when no status exists for a video/country.
var ErrVideoNotFound = errors.New("catalog: video not found")

// Season lists the episodes of one season in play order.
type Season struct {
	ID       int64   `yaml:"id" json:"id"`
	Sequence int     `yaml:"sequence" json:"sequence"`
	Episodes []int64 `yaml:"episodes" json:"episodes"`
}

// Show is the episode hierarchy of a series.
type Show struct {
	ID      int64    `yaml:"id" json:"id"`
	Seasons []Season `yaml:"seasons" json:"seasons"`
}

type contractKey struct {
	videoID    int64
	country    string
	contractID int64
}

type packageKey struct {
	videoID   int64
	packageID int64
}

type statusKey struct {
	videoID int64
	country string
}

// Snapshot is an in-memory index of one cycle's reference data.
// Add methods are not safe for concurrent use; once built, all lookups are.
type Snapshot struct {
	nowMillis int64
	contracts map[contractKey]rights.Contract
	packages  map[packageKey]rights.Package
	general   map[int64]rights.General
	statuses  map[statusKey]*rights.Status
	shows     map[int64]Show
}

// New returns an empty snapshot whose logical clock reads nowMillis.
func New(nowMillis int64) *Snapshot {
	return &Snapshot{
		nowMillis: nowMillis,
		contracts: make(map[contractKey]rights.Contract),
		packages:  make(map[packageKey]rights.Package),
		general:   make(map[int64]rights.General),
		statuses:  make(map[statusKey]*rights.Status),
		shows:     make(map[int64]Show),
	}
}

// NowMillis is the processing time of the cycle, identical for every call.
func (s *Snapshot) NowMillis() int64 { return s.nowMillis }

func normCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// AddContract registers contract attributes for a video in a country.
func (s *Snapshot) AddContract(videoID int64, country string, c rights.Contract) {
	s.contracts[contractKey{videoID, normCountry(country), c.ContractID}] = c
}

// AddPackage registers a package of a video.
func (s *Snapshot) AddPackage(videoID int64, p rights.Package) {
	s.packages[packageKey{videoID, p.ID}] = p
}

// AddGeneral registers general metadata of a video.
func (s *Snapshot) AddGeneral(g rights.General) {
	s.general[g.VideoID] = g
}

// AddStatus registers the rights and flags of a video in a country.
func (s *Snapshot) AddStatus(st *rights.Status) error {
	if st == nil {
		return errors.New("catalog: nil status")
	}
	if st.Country == "" {
		return fmt.Errorf("catalog: status for video %d has no country", st.VideoID)
	}
	st.Country = normCountry(st.Country)
	s.statuses[statusKey{st.VideoID, st.Country}] = st
	return nil
}

// AddShow registers a show hierarchy.
func (s *Snapshot) AddShow(sh Show) {
	s.shows[sh.ID] = sh
}

// Contract looks up contract attributes.
func (s *Snapshot) Contract(videoID int64, country string, contractID int64) (rights.Contract, bool) {
	c, ok := s.contracts[contractKey{videoID, normCountry(country), contractID}]
	return c, ok
}

// Package looks up package attributes.
func (s *Snapshot) Package(videoID, packageID int64) (rights.Package, bool) {
	p, ok := s.packages[packageKey{videoID, packageID}]
	return p, ok
}

// General looks up general video metadata.
func (s *Snapshot) General(videoID int64) (rights.General, bool) {
	g, ok := s.general[videoID]
	return g, ok
}

// Status returns the status of a video in a country.
func (s *Snapshot) Status(videoID int64, country string) (*rights.Status, error) {
	st, ok := s.statuses[statusKey{videoID, normCountry(country)}]
	if !ok {
		return nil, fmt.Errorf("%w: video %d country %s", ErrVideoNotFound, videoID, country)
	}
	return st, nil
}

// Show looks up a show hierarchy.
func (s *Snapshot) Show(showID int64) (Show, bool) {
	sh, ok := s.shows[showID]
	return sh, ok
}

// Countries returns the sorted countries a video has a status in.
func (s *Snapshot) Countries(videoID int64) []string {
	var out []string
	for k := range s.statuses {
		if k.videoID == videoID {
			out = append(out, k.country)
		}
	}
	slices.Sort(out)
	return out
}

// Document converts the snapshot back to its serializable form, sorted for
// stable output.
func (s *Snapshot) Document() Document {
	doc := Document{NowMillis: s.nowMillis}
	for k, c := range s.contracts {
		doc.Contracts = append(doc.Contracts, ContractRecord{VideoID: k.videoID, Country: k.country, Contract: c})
	}
	for k, p := range s.packages {
		doc.Packages = append(doc.Packages, PackageRecord{VideoID: k.videoID, Package: p})
	}
	for _, g := range s.general {
		doc.General = append(doc.General, g)
	}
	for _, st := range s.statuses {
		doc.Statuses = append(doc.Statuses, *st)
	}
	for _, sh := range s.shows {
		doc.Shows = append(doc.Shows, sh)
	}
	doc.sort()
	return doc
}
