// Package server assembles the boardly HTTP server from its Config: backends,
// session and claim managers, services, the account router and the
// operational endpoints (/healthz, /readyz, /metrics).
package server
