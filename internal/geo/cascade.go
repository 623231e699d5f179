package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/homebase-finder/internal/model"
)

var (
	// ErrUnknownCode is returned when a code is not in the dataset.
	ErrUnknownCode = errors.New("unknown division code")
	// ErrNotInParent is returned when a code exists but belongs to a
	// different parent than the current selection.
	ErrNotInParent = errors.New("division does not belong to the selected parent")
)

// Selection is the region → province → city → barangay state of an address
// form.  Selecting a level clears every level below it.
type Selection struct {
	ds *Dataset

	Region   string
	Province string
	City     string
	Barangay string
}

// NewSelection starts an empty selection over d.
func (d *Dataset) NewSelection() *Selection { return &Selection{ds: d} }

// SelectRegion sets the region and resets province, city and barangay.  An
// empty code clears the whole selection.
func (s *Selection) SelectRegion(code string) error {
	if code != "" {
		if _, ok := s.ds.regionByCode[code]; !ok {
			return fmt.Errorf("region %q: %w", code, ErrUnknownCode)
		}
	}
	s.Region, s.Province, s.City, s.Barangay = code, "", "", ""
	return nil
}

// SelectProvince sets the province and resets city and barangay.
func (s *Selection) SelectProvince(code string) error {
	if code != "" {
		p, ok := s.ds.provinceByCode[code]
		if !ok {
			return fmt.Errorf("province %q: %w", code, ErrUnknownCode)
		}
		if p.RegionCode != s.Region {
			return fmt.Errorf("province %q: %w", code, ErrNotInParent)
		}
	}
	s.Province, s.City, s.Barangay = code, "", ""
	return nil
}

// SelectCity sets the city and resets barangay.
func (s *Selection) SelectCity(code string) error {
	if code != "" {
		c, ok := s.ds.cityByCode[code]
		if !ok {
			return fmt.Errorf("city %q: %w", code, ErrUnknownCode)
		}
		if c.ProvinceCode != s.Province {
			return fmt.Errorf("city %q: %w", code, ErrNotInParent)
		}
	}
	s.City, s.Barangay = code, ""
	return nil
}

// SelectBarangay sets the barangay.
func (s *Selection) SelectBarangay(code string) error {
	if code != "" {
		b, ok := s.ds.barangayByCode[code]
		if !ok {
			return fmt.Errorf("barangay %q: %w", code, ErrUnknownCode)
		}
		if b.CityCode != s.City {
			return fmt.Errorf("barangay %q: %w", code, ErrNotInParent)
		}
	}
	s.Barangay = code
	return nil
}

// Provinces returns the province options for the selected region.
func (s *Selection) Provinces() []Province { return s.ds.ProvincesOf(s.Region) }

// Cities returns the city options for the selected province.
func (s *Selection) Cities() []City { return s.ds.CitiesOf(s.Province) }

// Barangays returns the barangay options for the selected city.
func (s *Selection) Barangays() []Barangay { return s.ds.BarangaysOf(s.City) }

// Codes identifies one division per level.  Empty trailing levels are
// allowed; a set level requires its parent.
type Codes struct {
	Region   string `json:"region_code"`
	Province string `json:"province_code"`
	City     string `json:"city_code"`
	Barangay string `json:"barangay_code"`
}

// Resolver turns division codes into a StructuredAddress.
type Resolver struct{ ds *Dataset }

func NewResolver(ds *Dataset) *Resolver { return &Resolver{ds: ds} }

// Resolve walks a Selection through c and fills in the division names.
func (r *Resolver) Resolve(c Codes, street, zip string) (model.StructuredAddress, error) {
	sel := r.ds.NewSelection()
	steps := []struct {
		code string
		fn   func(string) error
	}{
		{c.Region, sel.SelectRegion},
		{c.Province, sel.SelectProvince},
		{c.City, sel.SelectCity},
		{c.Barangay, sel.SelectBarangay},
	}
	for _, st := range steps {
		if err := st.fn(strings.TrimSpace(st.code)); err != nil {
			return model.StructuredAddress{}, err
		}
	}

	return model.StructuredAddress{
		Region:       r.ds.regionByCode[sel.Region].Name,
		RegionCode:   sel.Region,
		Province:     r.ds.provinceByCode[sel.Province].Name,
		ProvinceCode: sel.Province,
		City:         r.ds.cityByCode[sel.City].Name,
		CityCode:     sel.City,
		Barangay:     r.ds.barangayByCode[sel.Barangay].Name,
		BarangayCode: sel.Barangay,
		Street:       strings.TrimSpace(street),
		Zip:          strings.TrimSpace(zip),
	}, nil
}

// ComposeAddress joins street, barangay, city, province and region with
// ", ", skipping empty parts.
func ComposeAddress(sa model.StructuredAddress) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{sa.Street, sa.Barangay, sa.City, sa.Province, sa.Region} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
