// Package sshkey handles the deploy key material that grants the GitOps
// controllers read access to the repository.
//
// Keys are ed25519, produced in OpenSSH PEM format (private) and
// authorized_keys format (public). Fingerprints identify a key without
// exposing its bytes, which makes them safe to persist in run state.
package sshkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an ed25519 key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the private key in OpenSSH PEM format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateEd25519 generates a new ed25519 key pair. The comment is appended
// to the authorized_keys line so the key is recognizable on the forge side.
func GenerateEd25519(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	privBlock, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	privateKeyPEM := pem.EncodeToMemory(privBlock)

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	pubKeyBytes := ssh.MarshalAuthorizedKey(sshPub)
	if comment != "" {
		pubKeyBytes = append(bytes.TrimRight(pubKeyBytes, "\n"), []byte(" "+comment+"\n")...)
	}

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  pubKeyBytes,
	}, nil
}

// Fingerprint returns the SHA256 fingerprint of the public half of a
// PEM-encoded private key.
func Fingerprint(pemBytes []byte) (string, error) {
	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}
	return ssh.FingerprintSHA256(signer.PublicKey()), nil
}

// FingerprintFile reads a private key file and returns its fingerprint.
func FingerprintFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	return Fingerprint(data)
}

// WriteKeyPair writes the private key to path (0600) and the public key
// alongside it with a .pub suffix (0644), creating parent directories as
// needed.
func WriteKeyPair(kp *KeyPair, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, kp.PrivateKey, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(path+".pub", kp.PublicKey, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}
