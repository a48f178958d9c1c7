// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers: request logging,
CORS, JSON encoding/decoding, and client IP extraction.

WithLogging wraps individual handlers and logs method, path, status, and
duration on completion. CORS wraps the whole mux. The JSON helpers keep
handlers terse:

	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	middleware.JSONResponse(w, http.StatusOK, response)

GetClientIP walks X-Forwarded-For, then X-Real-IP, then RemoteAddr. The
result is advisory: it is stored alongside votes but never drives any
accept/reject decision.
*/
package middleware
