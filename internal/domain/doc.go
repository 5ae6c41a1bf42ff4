// Package domain contains the decoding and resolution core for National
// Weather Service guidance products: fixed-column NBM text bulletins, NDFD
// XML time-series alignment, derived physical quantities, and dominant
// weather-condition resolution.
//
// Everything in this package is pure data-in/data-out except the bulletin
// Locator, which probes backward in time through an injected fetcher. The
// station and icon tables are loaded once at startup and are read-only
// thereafter, so they are safe for concurrent use without locking.
package domain
