// Package geo loads the Philippine administrative divisions (regions,
// provinces, cities/municipalities and barangays) and answers the cascading
// lookups used by address forms.  A Dataset is immutable after loading and
// safe for concurrent use.
package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Region is a top-level administrative division.
type Region struct {
	Code string `json:"region_code"`
	Name string `json:"region_name"`
}

// Province belongs to one Region.
type Province struct {
	Code       string `json:"province_code"`
	Name       string `json:"province_name"`
	RegionCode string `json:"region_code"`
}

// City is a city or municipality inside one Province.
type City struct {
	Code         string `json:"city_code"`
	Name         string `json:"city_name"`
	ProvinceCode string `json:"province_code"`
}

// Barangay is the smallest division, inside one City.
type Barangay struct {
	Code     string `json:"brgy_code"`
	Name     string `json:"brgy_name"`
	CityCode string `json:"city_code"`
}

// Barangay datasets in the wild disagree on key names; these are tried in
// order.
var (
	barangayCodeKeys   = []string{"brgy_code", "barangay_code", "barangayCode", "id"}
	barangayNameKeys   = []string{"brgy_name", "barangay_name", "name"}
	barangayParentKeys = []string{"city_code", "mun_code", "citymunCode", "citymun_code"}
)

// Dataset holds every division plus code indexes.
type Dataset struct {
	regions   []Region
	provinces []Province
	cities    []City
	barangays []Barangay

	regionByCode   map[string]Region
	provinceByCode map[string]Province
	cityByCode     map[string]City
	barangayByCode map[string]Barangay
}

// File names expected inside the data directory.
const (
	RegionFile   = "region.json"
	ProvinceFile = "province.json"
	CityFile     = "city.json"
	BarangayFile = "barangay.json"
)

// Load reads the four dataset files from dir.
func Load(dir string) (*Dataset, error) {
	open := func(name string) (*os.File, error) {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open geo dataset: %w", err)
		}
		return f, nil
	}
	var files [4]*os.File
	for i, name := range []string{RegionFile, ProvinceFile, CityFile, BarangayFile} {
		f, err := open(name)
		if err != nil {
			for _, prev := range files[:i] {
				prev.Close()
			}
			return nil, err
		}
		files[i] = f
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	return Parse(files[0], files[1], files[2], files[3])
}

// Parse decodes the four JSON arrays.  Codes may be JSON strings or
// numbers; both are kept as their decimal text.
func Parse(regions, provinces, cities, barangays io.Reader) (*Dataset, error) {
	d := Empty()

	rows, err := decodeRows(regions, RegionFile)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		reg := Region{Code: r.first("region_code"), Name: r.first("region_name")}
		d.regions = append(d.regions, reg)
		d.regionByCode[reg.Code] = reg
	}

	if rows, err = decodeRows(provinces, ProvinceFile); err != nil {
		return nil, err
	}
	for _, r := range rows {
		p := Province{Code: r.first("province_code"), Name: r.first("province_name"), RegionCode: r.first("region_code")}
		d.provinces = append(d.provinces, p)
		d.provinceByCode[p.Code] = p
	}

	if rows, err = decodeRows(cities, CityFile); err != nil {
		return nil, err
	}
	for _, r := range rows {
		c := City{Code: r.first("city_code"), Name: r.first("city_name"), ProvinceCode: r.first("province_code")}
		d.cities = append(d.cities, c)
		d.cityByCode[c.Code] = c
	}

	if rows, err = decodeRows(barangays, BarangayFile); err != nil {
		return nil, err
	}
	for _, r := range rows {
		b := Barangay{
			Code:     r.first(barangayCodeKeys...),
			Name:     r.first(barangayNameKeys...),
			CityCode: r.first(barangayParentKeys...),
		}
		d.barangays = append(d.barangays, b)
		d.barangayByCode[b.Code] = b
	}

	return d, nil
}

// Empty returns a Dataset with no divisions.  Lookups on it return empty
// lists.
func Empty() *Dataset {
	return &Dataset{
		regions:        []Region{},
		regionByCode:   map[string]Region{},
		provinceByCode: map[string]Province{},
		cityByCode:     map[string]City{},
		barangayByCode: map[string]Barangay{},
	}
}

type row map[string]any

// first returns the first non-empty value among keys as text.
func (r row) first(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			s = fmt.Sprint(t)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

func decodeRows(r io.Reader, name string) ([]row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return rows, nil
}

// Regions lists all regions in dataset order.
func (d *Dataset) Regions() []Region { return append([]Region{}, d.regions...) }

// ProvincesOf lists the provinces of a region in dataset order.
func (d *Dataset) ProvincesOf(regionCode string) []Province {
	out := []Province{}
	if regionCode == "" {
		return out
	}
	for _, p := range d.provinces {
		if p.RegionCode == regionCode {
			out = append(out, p)
		}
	}
	return out
}

// CitiesOf lists the cities of a province.
func (d *Dataset) CitiesOf(provinceCode string) []City {
	out := []City{}
	if provinceCode == "" {
		return out
	}
	for _, c := range d.cities {
		if c.ProvinceCode == provinceCode {
			out = append(out, c)
		}
	}
	return out
}

// BarangaysOf lists the barangays of a city.
func (d *Dataset) BarangaysOf(cityCode string) []Barangay {
	out := []Barangay{}
	if cityCode == "" {
		return out
	}
	for _, b := range d.barangays {
		if b.CityCode == cityCode {
			out = append(out, b)
		}
	}
	return out
}

// Counts reports how many divisions of each level were loaded.
func (d *Dataset) Counts() (regions, provinces, cities, barangays int) {
	return len(d.regions), len(d.provinces), len(d.cities), len(d.barangays)
}
