package openflights

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// airports.dat column layout. The file has no header row.
const (
	colAirportID = iota
	colName
	colCity
	colCountry
	colIATA
	colICAO
	colLatitude
	colLongitude
	colAltitude
	colTimezone
	colDST
	colTzName
	colType
	colSource

	airportColumns = 14
)

const nullField = `\N`

// Airport is one row of airports.dat. Null fields ("\N") come through as
// zero values; HasCoords reports whether both coordinates were present.
type Airport struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	IATA    string  `json:"iata"`
	ICAO    string  `json:"icao"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`

	hasCoords bool
}

// HasCoords reports whether the source row carried both latitude and
// longitude.
func (a Airport) HasCoords() bool { return a.hasCoords }

// ParseAirports reads the airports.dat format from r. Rows with a missing
// ICAO code are skipped, since flights can never join against them.
func ParseAirports(r io.Reader) ([]Airport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = airportColumns

	var airports []Airport
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to parse airports data")
		}

		icao := field(rec[colICAO])
		if icao == "" {
			continue
		}

		a := Airport{
			Name:    field(rec[colName]),
			City:    field(rec[colCity]),
			Country: field(rec[colCountry]),
			IATA:    field(rec[colIATA]),
			ICAO:    icao,
		}
		if id := field(rec[colAirportID]); id != "" {
			a.ID, _ = strconv.Atoi(id)
		}
		lat, latOK := parseCoord(rec[colLatitude])
		lon, lonOK := parseCoord(rec[colLongitude])
		if latOK && lonOK {
			a.Lat, a.Lon = lat, lon
			a.hasCoords = true
		}
		airports = append(airports, a)
	}
	return airports, nil
}

// LoadAirports reads an airports.dat file from disk.
func LoadAirports(path string) ([]Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "failed to open airports file %s", path)
	}
	defer f.Close()

	airports, err := ParseAirports(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.GetCode(err), err, "failed to load %s", path)
	}
	return airports, nil
}

// IndexByICAO builds the ICAO-keyed lookup used for joining flights. Later
// duplicates win, matching a plain map build over the file order.
func IndexByICAO(airports []Airport) map[string]Airport {
	byICAO := make(map[string]Airport, len(airports))
	for _, a := range airports {
		byICAO[a.ICAO] = a
	}
	return byICAO
}

func field(s string) string {
	if s == nullField {
		return ""
	}
	return s
}

func parseCoord(s string) (float64, bool) {
	s = field(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
