package domain

import "errors"

// Failure kinds are sentinel errors so callers can distinguish them with
// errors.Is and map each kind to a distinct response. An individual missing
// field is never an error; it flows through as a nil value.
var (
	// ErrBulletinMissing is returned by a BulletinFetcher when no bulletin
	// was published for the requested issuance time. It drives the Locator's
	// backward probing and never escapes Locate.
	ErrBulletinMissing = errors.New("bulletin not published")

	// ErrBulletinUnavailable means the Locator exhausted its attempt bound
	// without finding an issuance.
	ErrBulletinUnavailable = errors.New("no bulletin issuance found")

	// ErrParse means bulletin text did not match the expected fixed-column
	// layout for the requested station and product.
	ErrParse = errors.New("bulletin parse failure")

	// ErrTimeAlignment means a time layout referenced by a data element is
	// empty or missing, so no observation can be built from the series.
	ErrTimeAlignment = errors.New("time-series alignment failure")

	// ErrConfiguration means a startup table (stations, icons, hierarchy)
	// has a gap. It is fatal at load time, never surfaced per request.
	ErrConfiguration = errors.New("configuration error")
)
