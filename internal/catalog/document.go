package catalog

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/rights"
	"gopkg.in/yaml.v3"
)

// ContractRecord is a contract scoped to a video and country.
type ContractRecord struct {
	VideoID         int64  `yaml:"videoId" json:"videoId"`
	Country         string `yaml:"country" json:"country"`
	rights.Contract `yaml:",inline"`
}

// PackageRecord is a package scoped to a video.
type PackageRecord struct {
	VideoID        int64 `yaml:"videoId" json:"videoId"`
	rights.Package `yaml:",inline"`
}

// Document is the on-disk form of a snapshot.
type Document struct {
	NowMillis int64            `yaml:"nowMillis" json:"nowMillis"`
	Contracts []ContractRecord `yaml:"contracts,omitempty" json:"contracts,omitempty"`
	Packages  []PackageRecord  `yaml:"packages,omitempty" json:"packages,omitempty"`
	General   []rights.General `yaml:"general,omitempty" json:"general,omitempty"`
	Statuses  []rights.Status  `yaml:"statuses,omitempty" json:"statuses,omitempty"`
	Shows     []Show           `yaml:"shows,omitempty" json:"shows,omitempty"`
}

func (d *Document) sort() {
	slices.SortFunc(d.Contracts, func(a, b ContractRecord) int {
		return cmp.Or(cmp.Compare(a.VideoID, b.VideoID), cmp.Compare(a.Country, b.Country), cmp.Compare(a.ContractID, b.ContractID))
	})
	slices.SortFunc(d.Packages, func(a, b PackageRecord) int {
		return cmp.Or(cmp.Compare(a.VideoID, b.VideoID), cmp.Compare(a.ID, b.ID))
	})
	slices.SortFunc(d.General, func(a, b rights.General) int { return cmp.Compare(a.VideoID, b.VideoID) })
	slices.SortFunc(d.Statuses, func(a, b rights.Status) int {
		return cmp.Or(cmp.Compare(a.VideoID, b.VideoID), cmp.Compare(a.Country, b.Country))
	})
	slices.SortFunc(d.Shows, func(a, b Show) int { return cmp.Compare(a.ID, b.ID) })
}

// Snapshot builds an indexed snapshot from the document.
func (d Document) Snapshot() (*Snapshot, error) {
	if d.NowMillis <= 0 {
		return nil, errors.New("catalog: nowMillis must be positive")
	}
	s := New(d.NowMillis)
	for _, c := range d.Contracts {
		s.AddContract(c.VideoID, c.Country, c.Contract)
	}
	for _, p := range d.Packages {
		s.AddPackage(p.VideoID, p.Package)
	}
	for _, g := range d.General {
		s.AddGeneral(g)
	}
	for i := range d.Statuses {
		st := d.Statuses[i]
		if err := s.AddStatus(&st); err != nil {
			return nil, err
		}
	}
	for _, sh := range d.Shows {
		s.AddShow(sh)
	}
	return s, nil
}

// Decode reads a YAML document strictly; unknown fields are rejected.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, errors.New("catalog: empty snapshot document")
		}
		return doc, fmt.Errorf("catalog: decode snapshot: %w", err)
	}
	return doc, nil
}

// LoadFile reads a YAML snapshot from disk.
func LoadFile(path string) (*Snapshot, error) {
	// #nosec G304 -- snapshot path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	snap, err := doc.Snapshot()
	if err != nil {
		return nil, err
	}
	logger := log.WithComponent("catalog")
	logger.Info().
		Str(log.FieldPath, path).
		Int("contracts", len(doc.Contracts)).
		Int("packages", len(doc.Packages)).
		Int("statuses", len(doc.Statuses)).
		Int("shows", len(doc.Shows)).
		Msg("snapshot loaded")
	return snap, nil
}

// Encode writes the document as YAML.
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("catalog: encode snapshot: %w", err)
	}
	return enc.Close()
}
