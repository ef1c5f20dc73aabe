// Package filmdata implements the catalog data pipeline: loading the film
// metadata CSV, normalizing its fields, and answering the fixed set of
// aggregation queries the dashboard renders.
//
// # Architecture
//
// The package has three components:
//
//  1. Loader: reads the CSV, matches headers case-insensitively and cleans
//     every field to a typed value or an explicit absent sentinel
//  2. Catalog: an immutable record set with range filtering and title search
//  3. Store: an mtime+size keyed cache around the loader with an explicit
//     reload entry point
//
// # Cleaning policy
//
// A malformed value never fails the load. Unparseable years and runtimes
// degrade to absent, an empty genre field becomes ["Unknown"], and an empty
// rating becomes "Unclassified". Only a missing file or a missing required
// column is a load error.
//
// # Usage
//
//	store := filmdata.NewStore("data/imdb-indonesian.csv", logger)
//	catalog, err := store.Get(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trend := catalog.FilterByYearRange(1990, 2020).YearlyCounts()
//
// All aggregations are deterministic pure reads over the immutable record
// slice; concurrent sessions share one catalog without locking.
package filmdata
