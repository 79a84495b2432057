package listener

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/ssh"
)

// LoadOrGenerateHostKey reads the ssh host key at path. With no path an
// ephemeral ed25519 key is generated, so clients see a new key every start.
func LoadOrGenerateHostKey(path string) (ssh.Signer, error) {
	if path != "" {
		keyBytes, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading host key %q: %w", path, err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing host key %q: %w", path, err)
		}
		return signer, nil
	}

	slog.Warn("no host_key_path configured for ssh listener, generating ephemeral key")
	_, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ephemeral key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("creating signer from ephemeral key: %w", err)
	}
	return signer, nil
}
