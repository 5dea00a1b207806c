package openflights

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// Flight is one row of a flight-list CSV: an origin/destination ICAO pair
// and the day the flight was observed. Day is the zero time when the file
// has no day column or the value failed to parse.
type Flight struct {
	Origin      string
	Destination string
	Day         time.Time
}

// FlightFunc receives each parsed flight. Returning an error stops the
// stream and propagates the error to the caller.
type FlightFunc func(Flight) error

// dayLayouts covers the timestamp formats seen in OpenSky flight lists.
var dayLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// ReadFlights streams flight rows from r, calling fn once per flight. The
// first row must be a header naming origin and destination columns. Rows
// where origin and destination are equal or either is empty are skipped.
func ReadFlights(r io.Reader, fn FlightFunc) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "flight list is empty")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to read flight list header")
	}

	originCol, destCol, dayCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "origin":
			originCol = i
		case "destination":
			destCol = i
		case "day":
			dayCol = i
		}
	}
	if originCol < 0 || destCol < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "flight list header is missing origin or destination column")
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to parse flight row")
		}
		if originCol >= len(rec) || destCol >= len(rec) {
			continue
		}

		flight := Flight{
			Origin:      strings.TrimSpace(rec[originCol]),
			Destination: strings.TrimSpace(rec[destCol]),
		}
		if flight.Origin == "" || flight.Destination == "" || flight.Origin == flight.Destination {
			continue
		}
		if dayCol >= 0 && dayCol < len(rec) {
			flight.Day = parseDay(rec[dayCol])
		}
		if err := fn(flight); err != nil {
			return err
		}
	}
}

// LoadFlightFile streams one flight-list file from disk, transparently
// decompressing when the path ends in .gz.
func LoadFlightFile(path string, fn FlightFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "failed to open flight list %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to decompress %s", path)
		}
		defer gz.Close()
		r = gz
	}

	if err := ReadFlights(r, fn); err != nil {
		return apperrors.Wrap(apperrors.GetCode(err), err, "failed to load %s", path)
	}
	return nil
}

// LoadFlightFiles streams several flight-list files in order through the
// same callback, mirroring a concatenated monthly dump.
func LoadFlightFiles(paths []string, fn FlightFunc) error {
	for _, path := range paths {
		if err := LoadFlightFile(path, fn); err != nil {
			return err
		}
	}
	return nil
}

func parseDay(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
