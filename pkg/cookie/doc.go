// Package cookie wraps net/http cookies with the attribute defaults boardly
// relies on and with authenticated encryption for values the browser must not read.
//
// The Manager is created with one or more secrets (each at least 32 characters).
// The first secret seals new values; every secret is tried when opening, so a
// secret can be rotated without logging everybody out.
//
//   - Set, Get, Delete: plain cookies with the manager's default attributes
//   - SetEncrypted, GetEncrypted: AES-256-GCM sealed values
//
// Delete always emits Max-Age=0 with an empty value and is safe to call when the
// cookie was never set.
//
// # Usage
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = man.SetEncrypted(w, "sid", token, cookie.WithMaxAge(86400))
//	token, err := man.GetEncrypted(r, "sid")
//
// # Configuration
//
// Config is parsed from the environment with github.com/caarlos0/env:
//
//	var cfg cookie.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//	man, err := cookie.NewFromConfig(cfg)
package cookie
