// Package openflights loads airport and flight-list data in the OpenFlights
// and OpenSky interchange formats.
//
// Airports come from the headerless 14-column airports.dat CSV, with "\N"
// marking null fields. Flight lists are CSV files, optionally gzip
// compressed, with a header row naming at least the origin, destination and
// day columns; rows are streamed one at a time so multi-gigabyte monthly
// dumps never have to fit in memory.
//
// The package joins flights against airports by ICAO code, aggregates them
// into per-route counts for the dashboard, and assembles the heterogeneous
// graph consumed by the exporter:
//
//	airports, err := openflights.LoadAirports("airports.dat")
//	agg := openflights.NewAggregator(airports, openflights.WithFocusCountry("United States"))
//	err = openflights.LoadFlightFile("flightlist_20200101_20200131.csv.gz", agg.Add)
//	routes := agg.Routes()
package openflights
