// package formatter builds authenticated request URLs and auth tokens for
// the Subsonic REST protocol.
package formatter

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/polyphonic/polyphonic/internal/models"
)

const (
	// ProtocolVersion is the Subsonic REST API version sent as v=
	ProtocolVersion = "1.16.1"
	// ClientName is sent as c= on every request
	ClientName = "polyphonic"
)

// ConnectionString composes a fully qualified request URL for the given
// endpoint. token is the salted password hash resolved from the credential
// store; it appears nowhere except in the returned URL.
//
// Shape: {host}[:{port}]/rest/{endpoint}.view?u=&t=&s=&v=&c=&f=json
func ConnectionString(library models.Library, token, endpoint string) string {
	host := library.Host
	if library.Port != -1 {
		host = fmt.Sprintf("%s:%d", host, library.Port)
	}
	return fmt.Sprintf(
		"%s/rest/%s.view?u=%s&t=%s&s=%s&v=%s&c=%s&f=json",
		host, endpoint, library.Username, token, library.Salt, ProtocolVersion, ClientName,
	)
}

// Token derives the request token from a plaintext password and salt,
// md5(password + salt) hex encoded.
func Token(password, salt string) string {
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// Salt generates a 32 byte random salt, hex encoded.
func Salt() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
