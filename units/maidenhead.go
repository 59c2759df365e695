package units

import (
	"fmt"
	"math"
	"strings"
)

// A Maidenhead locator is built from alternating letter and digit pairs.
// Each pair narrows the cell: 18 fields, 10 squares, 24 subsquares, 10
// extended squares.
var gridDivisions = [...]float64{18, 10, 24, 10}

// GridSquare returns the Maidenhead locator of the cell holding lat/lon,
// using the given number of pairs (1-4, so 2 to 8 characters).
func GridSquare(lat, lon Degrees, pairs int) (string, error) {
	if pairs < 1 || pairs > len(gridDivisions) {
		return "", fmt.Errorf("gridsquare precision must be 1-4 pairs, got %d", pairs)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", fmt.Errorf("position %.4f,%.4f out of range", lat, lon)
	}

	// Shift to positive space and keep the poles and antimeridian inside the
	// last cell.
	x := math.Min(float64(lon)+180, 360-1e-9)
	y := math.Min(float64(lat)+90, 180-1e-9)

	lonCell, latCell := 360.0, 180.0
	var grid strings.Builder
	for i := 0; i < pairs; i++ {
		lonCell /= gridDivisions[i]
		latCell /= gridDivisions[i]

		xi := int(x / lonCell)
		yi := int(y / latCell)
		x -= float64(xi) * lonCell
		y -= float64(yi) * latCell

		switch i {
		case 0:
			grid.WriteByte(byte('A' + xi))
			grid.WriteByte(byte('A' + yi))
		case 2:
			grid.WriteByte(byte('a' + xi))
			grid.WriteByte(byte('a' + yi))
		default:
			grid.WriteByte(byte('0' + xi))
			grid.WriteByte(byte('0' + yi))
		}
	}
	return grid.String(), nil
}

// GridSquareCenter converts a Maidenhead locator (like "EN91" or "EN91kl")
// to the latitude and longitude of its center.
func GridSquareCenter(grid string) (Degrees, Degrees, error) {
	grid = strings.ToUpper(grid)
	if len(grid) < 2 || len(grid)%2 != 0 || len(grid) > 2*len(gridDivisions) {
		return 0, 0, fmt.Errorf("invalid gridsquare length: %s", grid)
	}

	lon, lat := -180.0, -90.0
	lonCell, latCell := 360.0, 180.0
	for i := 0; i < len(grid)/2; i++ {
		lonCell /= gridDivisions[i]
		latCell /= gridDivisions[i]

		base := byte('0')
		if i%2 == 0 {
			base = 'A'
		}
		xi := int(grid[2*i]) - int(base)
		yi := int(grid[2*i+1]) - int(base)
		if xi < 0 || yi < 0 || float64(xi) >= gridDivisions[i] || float64(yi) >= gridDivisions[i] {
			return 0, 0, fmt.Errorf("invalid gridsquare character in %s", grid)
		}

		lon += float64(xi) * lonCell
		lat += float64(yi) * latCell
	}

	// Center of the last cell
	lon += lonCell / 2
	lat += latCell / 2

	return Degrees(lat), Degrees(lon), nil
}
