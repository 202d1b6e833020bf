// Package attest signs finished Monake results so stored scores can be
// checked later. Keys are ordinary OpenSSH ed25519 keys; the SSH server
// signs with its host key.
package attest

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/vovakirdan/monake/internal/games/monake"
)

var (
	// ErrBadSignature means the payload does not match its signature.
	ErrBadSignature = errors.New("attest: signature does not verify")
	// ErrUntrustedKey means the attestation was signed by a different key.
	ErrUntrustedKey = errors.New("attest: signed by an untrusted key")
)

// Claims is the signed statement about one finished session.
type Claims struct {
	Player        string    `json:"player"`
	Mode          string    `json:"mode"`
	Score         int       `json:"score"`
	Ticks         uint64    `json:"ticks"`
	Moves         int       `json:"moves"`
	Length        int       `json:"length"`
	DurationMs    int64     `json:"duration_ms"`
	MoveLogDigest string    `json:"move_log_digest"`
	IssuedAt      time.Time `json:"issued_at"`
}

// NewClaims builds the claims for a result.
func NewClaims(player, mode string, r monake.Result, now time.Time) Claims {
	return Claims{
		Player:        player,
		Mode:          mode,
		Score:         r.Score,
		Ticks:         r.Ticks,
		Moves:         r.Moves,
		Length:        r.Length,
		DurationMs:    r.Duration.Milliseconds(),
		MoveLogDigest: MoveLogDigest(r.MoveLog),
		IssuedAt:      now.UTC().Truncate(time.Second),
	}
}

// MoveLogDigest returns the hex SHA-256 of the move log in "tick:direction;" form.
func MoveLogDigest(moves []monake.Move) string {
	var b strings.Builder
	for _, m := range moves {
		fmt.Fprintf(&b, "%d:%s;", m.Tick, m.Direction)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Attestation is a signed Claims payload together with the signing public key.
type Attestation struct {
	Payload   []byte `json:"payload"`
	Format    string `json:"format"`
	Signature []byte `json:"signature"`
	PublicKey string `json:"public_key"` // authorized_keys line
}

// Encode serializes the attestation for storage.
func (a Attestation) Encode() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("attest: encode: %w", err)
	}
	return string(data), nil
}

// Decode parses an attestation produced by Encode.
func Decode(s string) (Attestation, error) {
	var a Attestation
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return Attestation{}, fmt.Errorf("attest: decode: %w", err)
	}
	return a, nil
}

// Signer signs claims with an SSH key.
type Signer struct {
	signer ssh.Signer
}

// NewSigner wraps an existing SSH signer, such as a server host key.
func NewSigner(s ssh.Signer) *Signer {
	return &Signer{signer: s}
}

// LoadOrCreateKey reads an OpenSSH private key from path, generating and
// saving a new ed25519 key when the file does not exist.
func LoadOrCreateKey(path string) (*Signer, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("attest: parse key %s: %w", path, err)
		}
		return NewSigner(s), nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("attest: read key %s: %w", path, err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("attest: generate key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "monake score key")
	if err != nil {
		return nil, fmt.Errorf("attest: marshal key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("attest: create key directory: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, fmt.Errorf("attest: write key %s: %w", path, err)
	}

	s, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("attest: signer: %w", err)
	}
	return NewSigner(s), nil
}

// PublicKey returns the signer's key in authorized_keys format.
func (s *Signer) PublicKey() string {
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(s.signer.PublicKey())))
}

// Fingerprint returns the SHA256 fingerprint of the signing key.
func (s *Signer) Fingerprint() string {
	return ssh.FingerprintSHA256(s.signer.PublicKey())
}

// Sign serializes and signs claims.
func (s *Signer) Sign(c Claims) (Attestation, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return Attestation{}, fmt.Errorf("attest: marshal claims: %w", err)
	}
	sig, err := s.signer.Sign(rand.Reader, payload)
	if err != nil {
		return Attestation{}, fmt.Errorf("attest: sign: %w", err)
	}
	return Attestation{
		Payload:   payload,
		Format:    sig.Format,
		Signature: sig.Blob,
		PublicKey: s.PublicKey(),
	}, nil
}

// Verify checks the signature and that it was made with this signer's key.
func (s *Signer) Verify(a Attestation) (Claims, error) {
	pub, err := parsePublicKey(a.PublicKey)
	if err != nil {
		return Claims{}, err
	}
	if !bytes.Equal(pub.Marshal(), s.signer.PublicKey().Marshal()) {
		return Claims{}, fmt.Errorf("%w: %s", ErrUntrustedKey, ssh.FingerprintSHA256(pub))
	}
	return Verify(a)
}

// Verify checks the signature against the key embedded in the attestation
// and returns the signed claims.
func Verify(a Attestation) (Claims, error) {
	pub, err := parsePublicKey(a.PublicKey)
	if err != nil {
		return Claims{}, err
	}
	if err := pub.Verify(a.Payload, &ssh.Signature{Format: a.Format, Blob: a.Signature}); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	var c Claims
	if err := json.Unmarshal(a.Payload, &c); err != nil {
		return Claims{}, fmt.Errorf("attest: unmarshal claims: %w", err)
	}
	return c, nil
}

func parsePublicKey(s string) (ssh.PublicKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("attest: parse public key: %w", err)
	}
	return pub, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("attest: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
