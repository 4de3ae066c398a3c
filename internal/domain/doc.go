// Package domain models disaster events derived from news coverage.
//
// # Data Source
//
// Articles come from a keyword-based news search API (the NewsAPI
// /v2/everything endpoint shape). The collector issues one query per keyword
// in the fixed ten-keyword disaster vocabulary over a trailing window and tags
// each result with the keyword that retrieved it. The same real-world article
// can match several keywords and appear once per match; deduplication happens
// at insertion time, keyed on URL, so the first-inserted tag wins.
//
// # Timestamps
//
// publishedAt is carried as the ISO-8601 string delivered by the news API
// (always UTC, "Z" suffix). added_to_db and created_at are stamped in the
// same representation at insertion time. Range queries compare these strings
// lexicographically, which is correct as long as every value shares the UTC
// representation.
//
// # Locations
//
// Place names extracted from an article's title and description are resolved
// to WGS-84 coordinates plus the geocoder's canonical formatted address.
// A name with no geocoder match contributes nothing; an article whose text
// yields zero resolvable locations is never persisted. The locations slice on
// a stored event is therefore always non-empty.
package domain
