// Package domain models the flood-risk viewer: flood levels, the flood API
// payloads, chat messages, and the error taxonomy shared by every component.
//
// # Flood levels
//
// A flood level is a scenario water height in meters. The slider covers
// 0.0 to 3.0 in 0.5 steps and the default scenario is 2.0. Levels travel in
// two encodings:
//
//	address bar:  ?level=2.5   shortest float form ("2", "0.5")
//	API routes:   /api/map/2.0 always with a decimal point
//
// # API status tags
//
// Every read response carries a status:
//
//	success  payload is complete
//	warning  backend is degraded (mock statistics, no map or tile URL)
//	error    request failed server-side; message explains why
//
// # Errors
//
// [TransportError] covers non-2xx responses and network failures,
// [BackendError] covers a 2xx body whose status is "error". Neither is fatal:
// callers log them and keep the previous view. Malformed level parameters are
// not errors at all and silently fall back to [DefaultLevel].
package domain
