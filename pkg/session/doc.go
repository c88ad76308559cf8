// Package session manages server-side login sessions.
//
// A Manager ties a Store (where session records live) to a Transport (how the
// opaque session token travels with each request). The default transport is an
// encrypted cookie built on pkg/cookie. Two stores ship with the package:
// MemoryStore for tests and single-process deployments, and RedisStore for
// everything else.
//
// Every successful login goes through Authenticate, which rotates the token.
// Other packages may bind state to the token (the two-factor claim does) and
// rely on that rotation to invalidate it. Manager.Token exposes the token of the
// live session for exactly that purpose.
//
// Sessions record the login provider ("credentials", "google", ...) next to
// the user id so that policies depending on how a user signed in can be applied
// per session rather than per account.
//
// # Usage
//
//	cookies, _ := cookie.New([]string{secret})
//	manager := session.New(
//	    session.WithCookieManager(cookies),
//	    session.WithStore(session.NewRedisStore(client, "")),
//	)
//	defer manager.Close()
//
//	sess, err := manager.Authenticate(ctx, w, r, user.ID, "credentials")
//
// # Errors
//
//   - ErrSessionNotFound: no token, or the token maps to nothing
//   - ErrSessionExpired: the record passed its expiry
//   - ErrStoreFailure: the backend failed; wraps the driver error
package session
