package domain

import "context"

// Geocoder maps a free-text place name to coordinates and a canonical
// address. found is false when the service has no match for the name;
// err is reserved for transport and API failures, which callers may treat
// as retry-worthy. Implementations own the rate limiting toward the
// external service.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (loc ResolvedLocation, found bool, err error)
}
