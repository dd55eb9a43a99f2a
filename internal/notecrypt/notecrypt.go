// Package notecrypt encrypts contract notes at rest with Fernet tokens.
// A nil or keyless Sealer stores notes as plain text.
package notecrypt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
)

// tokenTTL is long enough that stored notes never expire.
const tokenTTL = 100 * 365 * 24 * time.Hour

// ErrUnreadable is returned when a stored note does not verify under any key.
var ErrUnreadable = errors.New("contract note cannot be decrypted")

// Sealer encrypts with the first key and decrypts with any of them, so keys
// can be rotated by prepending a new one.
type Sealer struct {
	keys []*fernet.Key
}

// New parses a comma separated list of base64 Fernet keys. An empty string
// yields a Sealer that leaves notes untouched.
func New(encodedKeys string) (*Sealer, error) {
	s := &Sealer{}
	for _, encoded := range strings.Split(encodedKeys, ",") {
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			continue
		}
		k, err := fernet.DecodeKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid contract note key: %w", err)
		}
		s.keys = append(s.keys, k)
	}
	return s, nil
}

// Enabled reports whether notes are encrypted.
func (s *Sealer) Enabled() bool {
	return s != nil && len(s.keys) > 0
}

// Seal encrypts a note for storage.
func (s *Sealer) Seal(note string) (string, error) {
	if !s.Enabled() || note == "" {
		return note, nil
	}
	tok, err := fernet.EncryptAndSign([]byte(note), s.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt contract note: %w", err)
	}
	return string(tok), nil
}

// Open decrypts a stored note.
func (s *Sealer) Open(stored string) (string, error) {
	if !s.Enabled() || stored == "" {
		return stored, nil
	}
	msg := fernet.VerifyAndDecrypt([]byte(stored), tokenTTL, s.keys)
	if msg == nil {
		return "", ErrUnreadable
	}
	return string(msg), nil
}
