// Package fetch retrieves page content for the two compared sides.
//
// The Fetcher wraps a shared resty HTTP client with the cache-first
// read / write-through policy and classifies every failure into a typed
// kind (timeout, DNS, TLS, connection, HTTP status). Progress events
// flow through a bounded, drop-oldest Publisher so a slow log consumer
// can never stall the pipeline.
package fetch
