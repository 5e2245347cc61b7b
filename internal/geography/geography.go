package geography

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var ErrInvalidDistrict = errors.New("invalid district")

type InvalidDistrictError struct {
	Name string
}

func (e *InvalidDistrictError) Error() string {
	return fmt.Sprintf("unknown district %q", e.Name)
}

func (e *InvalidDistrictError) Is(target error) bool {
	return target == ErrInvalidDistrict
}

// Districts of Kerala ordered south to north. A district's position in this
// list is its identity for corridor computation.
var order = []string{
	"Thiruvananthapuram", "Kollam", "Pathanamthitta", "Alappuzha", "Kottayam",
	"Idukki", "Ernakulam", "Thrissur", "Palakkad", "Malappuram",
	"Kozhikode", "Wayanad", "Kannur", "Kasaragod",
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var centres = map[string]Coordinates{
	"Alappuzha":          {Lat: 9.4981, Lng: 76.3388},
	"Ernakulam":          {Lat: 9.9816, Lng: 76.2996},
	"Idukki":             {Lat: 9.8392, Lng: 76.9746},
	"Kannur":             {Lat: 11.8745, Lng: 75.3704},
	"Kasaragod":          {Lat: 12.5002, Lng: 74.9896},
	"Kollam":             {Lat: 8.8932, Lng: 76.6141},
	"Kottayam":           {Lat: 9.5916, Lng: 76.5222},
	"Kozhikode":          {Lat: 11.2588, Lng: 75.7804},
	"Malappuram":         {Lat: 11.0736, Lng: 76.0742},
	"Palakkad":           {Lat: 10.7867, Lng: 76.6548},
	"Pathanamthitta":     {Lat: 9.2648, Lng: 76.7870},
	"Thiruvananthapuram": {Lat: 8.5241, Lng: 76.9366},
	"Thrissur":           {Lat: 10.5276, Lng: 76.2144},
	"Wayanad":            {Lat: 11.6854, Lng: 76.1320},
}

// Ordered returns a copy of the south-to-north district ordering.
func Ordered() []string {
	return slices.Clone(order)
}

// Districts returns the district names sorted alphabetically.
func Districts() []string {
	names := slices.Clone(order)
	sort.Strings(names)
	return names
}

// Index returns the district's position in the south-to-north ordering.
// Names must match exactly.
func Index(name string) (int, error) {
	i := slices.Index(order, name)
	if i < 0 {
		return -1, &InvalidDistrictError{Name: name}
	}
	return i, nil
}

// Canonical resolves a district name case-insensitively to its canonical spelling.
func Canonical(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, d := range order {
		if strings.EqualFold(d, trimmed) {
			return d, true
		}
	}
	return "", false
}

func IsDistrict(name string) bool {
	return slices.Contains(order, name)
}

// Corridor returns the districts travelled through from source to destination,
// both inclusive, listed starting at source regardless of direction.
func Corridor(source, destination string) ([]string, error) {
	from, err := Index(source)
	if err != nil {
		return nil, err
	}
	to, err := Index(destination)
	if err != nil {
		return nil, err
	}

	if from <= to {
		return slices.Clone(order[from : to+1]), nil
	}

	corridor := slices.Clone(order[to : from+1])
	slices.Reverse(corridor)
	return corridor, nil
}

// StopDistricts drops the origin from a corridor. The destination stays.
func StopDistricts(corridor []string) []string {
	if len(corridor) == 0 {
		return nil
	}
	return slices.Clone(corridor[1:])
}

func CoordinatesOf(name string) (Coordinates, bool) {
	c, ok := centres[name]
	return c, ok
}
