package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
)

const (
	// StoragePrecision is the geohash length persisted per property (about 5m cells).
	StoragePrecision uint = 9
	// DefaultSearchPrecision covers roughly 1.2km x 0.6km per cell.
	DefaultSearchPrecision uint = 6
	MinSearchPrecision     uint = 3
	MaxSearchPrecision     uint = 8
)

var ErrInvalidPoint = errors.New("near must be formatted as lat,lng with valid coordinates")

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// Encode returns the storage geohash of the point.
func Encode(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, StoragePrecision)
}

// ParsePoint parses "lat,lng".
func ParsePoint(value string) (Point, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Point{}, ErrInvalidPoint
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}

	point := Point{Latitude: lat, Longitude: lng}
	if !point.Valid() {
		return Point{}, ErrInvalidPoint
	}

	return point, nil
}

// ClampPrecision keeps a requested search precision inside the supported range.
func ClampPrecision(precision uint) uint {
	switch {
	case precision == 0:
		return DefaultSearchPrecision
	case precision < MinSearchPrecision:
		return MinSearchPrecision
	case precision > MaxSearchPrecision:
		return MaxSearchPrecision
	}

	return precision
}

// Cells returns the cell containing the point followed by its eight neighbours.
func Cells(point Point, precision uint) []string {
	center := geohash.EncodeWithPrecision(point.Latitude, point.Longitude, ClampPrecision(precision))

	return append([]string{center}, geohash.Neighbors(center)...)
}
