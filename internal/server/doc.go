// Package server exposes the local media serving endpoint consumed by a
// playback front-end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] patterns for method matching and path parameters.
//
// # Media Endpoints
//
// [MediaHandler] serves two routes. GET /covers/{id} returns cover art
// bytes from the cover cache with a content type derived from the stored
// extension. GET /audio/{id} returns a song's audio honoring single byte
// ranges; a song not yet cached is fetched from its remote library and
// written to the audio cache before the first byte goes out.
//
// # Ownership
//
// [Server] is explicitly constructed, started, and shut down by its caller.
// Nothing in this package installs global handlers or starts listeners as
// a side effect.
package server
