// package subsonic implements a typed client for the Subsonic-family REST
// protocol (JSON flavor).
//
// Every call performs one HTTP GET against a URL built by the formatter
// package and decodes the {"subsonic-response": ...} envelope. Transport
// failures, malformed payloads and application-level error envelopes
// propagate as the distinct shared.ErrTransport / shared.ErrDecode /
// shared.ErrProtocol kinds.
package subsonic
