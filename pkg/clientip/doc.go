// Package clientip resolves the client address of a request.
//
// Only the forwarding headers named in Config.TrustedHeaders are consulted,
// in order, before falling back to RemoteAddr:
//
//	res := clientip.New(clientip.Config{TrustedHeaders: []string{"CF-Connecting-IP", "X-Forwarded-For"}})
//	r.Use(res.Middleware)
//
//	ip := clientip.GetIP(r) // rate limiter keys, audit logs
package clientip
