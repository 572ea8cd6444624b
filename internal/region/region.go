// Package region holds the static region -> city table used for the
// two-level weather menu.
package region

import (
	"errors"
	"fmt"
)

// Table errors.
var (
	ErrEmptyName      = errors.New("empty region or city name")
	ErrDuplicateName  = errors.New("duplicate region name")
	ErrDuplicateCity  = errors.New("city listed in more than one region")
	ErrNameCollision  = errors.New("city name collides with a region name")
	ErrRegionNoCities = errors.New("region has no cities")
)

// Region is a named group of cities, in menu display order.
type Region struct {
	Name   string
	Cities []string
}

// Table is an immutable, ordered set of regions partitioning all cities.
type Table struct {
	regions  []Region
	byName   map[string]int
	cityToIx map[string]int
}

// New builds a Table and checks that the regions partition their cities.
func New(regions ...Region) (*Table, error) {
	t := &Table{
		regions:  make([]Region, 0, len(regions)),
		byName:   make(map[string]int, len(regions)),
		cityToIx: make(map[string]int),
	}

	for i, r := range regions {
		if r.Name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
		}
		if len(r.Cities) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRegionNoCities, r.Name)
		}
		t.byName[r.Name] = i

		cities := make([]string, len(r.Cities))
		copy(cities, r.Cities)
		for _, c := range cities {
			if c == "" {
				return nil, fmt.Errorf("%w in region %s", ErrEmptyName, r.Name)
			}
			if prev, ok := t.cityToIx[c]; ok {
				return nil, fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateCity, c, regions[prev].Name, r.Name)
			}
			t.cityToIx[c] = i
		}
		t.regions = append(t.regions, Region{Name: r.Name, Cities: cities})
	}

	for name := range t.byName {
		if _, ok := t.cityToIx[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrNameCollision, name)
		}
	}

	return t, nil
}

// Default returns the five regions of Taiwan covering all 22 cities and counties.
func Default() *Table {
	t, err := New(
		Region{Name: "北部", Cities: []string{"基隆市", "臺北市", "新北市", "桃園市", "新竹市", "新竹縣"}},
		Region{Name: "中部", Cities: []string{"苗栗縣", "臺中市", "彰化縣", "南投縣", "雲林縣"}},
		Region{Name: "南部", Cities: []string{"嘉義市", "嘉義縣", "臺南市", "高雄市", "屏東縣"}},
		Region{Name: "東部", Cities: []string{"宜蘭縣", "花蓮縣", "臺東縣"}},
		Region{Name: "離島", Cities: []string{"澎湖縣", "金門縣", "連江縣"}},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Regions returns a copy of all regions in display order.
func (t *Table) Regions() []Region {
	out := make([]Region, len(t.regions))
	for i, r := range t.regions {
		out[i] = Region{Name: r.Name, Cities: append([]string(nil), r.Cities...)}
	}
	return out
}

// Names returns the region names in display order.
func (t *Table) Names() []string {
	names := make([]string, len(t.regions))
	for i, r := range t.regions {
		names[i] = r.Name
	}
	return names
}

// Lookup returns the region with the exact given name.
func (t *Table) Lookup(name string) (Region, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Region{}, false
	}
	r := t.regions[i]
	return Region{Name: r.Name, Cities: append([]string(nil), r.Cities...)}, true
}

// RegionOf returns the region that contains the exact given city.
func (t *Table) RegionOf(city string) (Region, bool) {
	i, ok := t.cityToIx[city]
	if !ok {
		return Region{}, false
	}
	return t.Lookup(t.regions[i].Name)
}

// IsRegion reports whether name is a region name.
func (t *Table) IsRegion(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// IsCity reports whether name is a city in any region.
func (t *Table) IsCity(name string) bool {
	_, ok := t.cityToIx[name]
	return ok
}

// Cities returns every city, grouped by region in display order.
func (t *Table) Cities() []string {
	cities := make([]string, 0, len(t.cityToIx))
	for _, r := range t.regions {
		cities = append(cities, r.Cities...)
	}
	return cities
}
