// Package api provides the token-authenticated HTTP server for composer's daemon mode.
//
// Key components:
//   - API: Manages server setup and endpoint registration.
//   - RequireToken: Wraps HTTP handlers with bearer token validation.
//
// Usage example:
//
//	httpAPI := api.New("secure-token", ":8080")
//	httpAPI.RegisterHandler("/v1/metrics", metricsHandler.Handle)
//	if err := httpAPI.Start(ctx, true); err != nil {
//	    logrus.WithError(err).Error("API start failed")
//	}
//
// The package uses a private ServeMux for routing and shuts down gracefully
// when its context is cancelled.
package api
