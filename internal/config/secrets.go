package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const tokenKey = "api_token"

func secretsFilePath(dataDir string) string {
	return filepath.Join(dataDir, "secrets.json")
}

// APIToken returns the bearer token stored in dataDir/secrets.json,
// generating and saving one on first use.
func APIToken(dataDir string) (string, error) {
	p := secretsFilePath(dataDir)
	secrets, err := readSecrets(p)
	if err != nil {
		return "", err
	}
	if tok := secrets[tokenKey]; tok != "" {
		return tok, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	tok := hex.EncodeToString(buf)
	secrets[tokenKey] = tok
	if err := writeSecrets(p, secrets); err != nil {
		return "", err
	}
	return tok, nil
}

// ReadAPIToken returns the stored token without creating one.
func ReadAPIToken(dataDir string) (string, error) {
	secrets, err := readSecrets(secretsFilePath(dataDir))
	if err != nil {
		return "", err
	}
	tok := secrets[tokenKey]
	if tok == "" {
		return "", fmt.Errorf("no API token in %s; start the server once to create it", secretsFilePath(dataDir))
	}
	return tok, nil
}

func readSecrets(p string) (map[string]string, error) {
	secrets := make(map[string]string)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return secrets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	return secrets, nil
}

func writeSecrets(p string, secrets map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, out, 0o600)
}
