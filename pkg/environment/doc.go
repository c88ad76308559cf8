// Package environment names the deployment the process runs in and carries it
// through request contexts and log records.
//
// Parse turns the APP_ENV value into an Environment. Production and staging are
// both "production-like": security-sensitive defaults such as the Secure cookie
// attribute switch on for them.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	router.Use(environment.Middleware(env))
//
//	if environment.IsProduction(r.Context()) {
//	    // production-only behaviour
//	}
//
// LoggerExtractor plugs into logger.WithContextExtractors so every record
// logged with a request context carries an "env" attribute.
package environment
