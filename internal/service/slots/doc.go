// Package slots holds the pure parsers used to pull structured values out of
// free text: dates, clock times, ratings, station names and genres.
package slots
