package openflights

import (
	"sort"
	"time"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/hetero"
)

// GraphBuilder accumulates streamed flights into the flight relation of a
// heterogeneous graph, aggregated per directed airport pair and calendar
// week. Only flights whose endpoints are known airports are counted; the
// node set covers exactly the airports that appear on at least one counted
// flight.
//
// GraphBuilder is not safe for concurrent use.
type GraphBuilder struct {
	byICAO map[string]Airport
	counts map[flightBucket]int
}

// flightBucket aggregates flights sharing a directed pair and week. The
// week field is the Monday starting that flight's week, zero when the row
// carried no parseable day.
type flightBucket struct {
	origin string
	dest   string
	week   time.Time
}

// NewGraphBuilder builds a GraphBuilder over the given airports.
func NewGraphBuilder(airports []Airport) *GraphBuilder {
	return &GraphBuilder{
		byICAO: IndexByICAO(airports),
		counts: make(map[flightBucket]int),
	}
}

// Add counts one flight. It is a FlightFunc and never returns an error.
func (b *GraphBuilder) Add(f Flight) error {
	if _, ok := b.byICAO[f.Origin]; !ok {
		return nil
	}
	if _, ok := b.byICAO[f.Destination]; !ok {
		return nil
	}
	b.counts[flightBucket{f.Origin, f.Destination, weekStart(f.Day)}]++
	return nil
}

// weekStart returns the Monday midnight (UTC) opening t's week, or the zero
// time for a zero t.
func weekStart(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
}

// Build assembles the graph: an airport index over the ICAO codes seen on
// counted flights (sorted, so indices are reproducible) and one flight edge
// per directed airport pair and week, with attribute rows carrying the
// flight count and the week number. Weeks are numbered from the earliest
// week seen in the input; rows without a parseable day land in week 0.
func (b *GraphBuilder) Build() (*hetero.Graph, error) {
	if len(b.counts) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeMissingInput, "no flights joined against the airport set")
	}

	seen := make(map[string]struct{})
	var firstWeek time.Time
	for bucket := range b.counts {
		seen[bucket.origin] = struct{}{}
		seen[bucket.dest] = struct{}{}
		if !bucket.week.IsZero() && (firstWeek.IsZero() || bucket.week.Before(firstWeek)) {
			firstWeek = bucket.week
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	airportIx, err := hetero.NewIndex(codes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to index airports")
	}
	lineageIx, err := hetero.NewIndex(nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to index lineages")
	}

	buckets := make([]flightBucket, 0, len(b.counts))
	for bucket := range b.counts {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].origin != buckets[j].origin {
			return buckets[i].origin < buckets[j].origin
		}
		if buckets[i].dest != buckets[j].dest {
			return buckets[i].dest < buckets[j].dest
		}
		return buckets[i].week.Before(buckets[j].week)
	})

	src := make([]int, len(buckets))
	dst := make([]int, len(buckets))
	attr := make([][]float64, len(buckets))
	for i, bucket := range buckets {
		srcIdx, _ := airportIx.Idx(bucket.origin)
		dstIdx, _ := airportIx.Idx(bucket.dest)
		src[i] = srcIdx
		dst[i] = dstIdx
		attr[i] = []float64{float64(b.counts[bucket]), float64(weekNumber(bucket.week, firstWeek))}
	}

	es, err := hetero.NewEdgeSet(src, dst, attr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to build flight edges")
	}

	g := hetero.New(airportIx, lineageIx)
	if err := g.SetEdges(hetero.RelFlight, es); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to attach flight edges")
	}
	return g, nil
}

// weekNumber converts a week start into its offset in weeks from the first
// week of the input.
func weekNumber(week, firstWeek time.Time) int {
	if week.IsZero() || firstWeek.IsZero() {
		return 0
	}
	return int(week.Sub(firstWeek) / (7 * 24 * time.Hour))
}

// Info returns the exporter's display-attribute lookup for the airports the
// builder knows about.
func (b *GraphBuilder) Info() map[string]export.AirportInfo {
	info := make(map[string]export.AirportInfo, len(b.byICAO))
	for code, a := range b.byICAO {
		if !a.HasCoords() {
			continue
		}
		info[code] = export.AirportInfo{
			Lat:     a.Lat,
			Lon:     a.Lon,
			City:    a.City,
			Country: a.Country,
		}
	}
	return info
}
