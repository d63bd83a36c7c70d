// package media implements the on-disk media cache: a content-addressed
// cover art store, a stream-to-file audio cache, and byte-range serving for
// cached audio.
//
// Files are addressed by the remote's opaque id plus a detected extension.
// The existence of any file matching {id}.* counts as "already cached", so
// concurrent writers racing on one id settle on last-writer-wins.
package media
