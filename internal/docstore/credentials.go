package docstore

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Credential sealing. The master key is stored locally fernet-encrypted
// under a server-side secret, so a copied database file does not leak the
// remote credential. It is only ever decrypted in memory to build the
// X-Master-Key request header.

// ParseSecretKey decodes the configured fernet key.
func ParseSecretKey(encoded string) (*fernet.Key, error) {
	if encoded == "" {
		return nil, fmt.Errorf("sync secret key is not configured")
	}
	key, err := fernet.DecodeKey(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid sync secret key: %w", err)
	}
	return key, nil
}

// SealCredential encrypts the API credential for storage.
func SealCredential(key *fernet.Key, apiKey string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(apiKey), key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credential: %w", err)
	}
	return string(token), nil
}

// OpenCredential decrypts a stored credential. Tokens never expire; the
// row lives until the user clears the configuration.
func OpenCredential(key *fernet.Key, sealed string) (string, error) {
	plain := fernet.VerifyAndDecrypt([]byte(sealed), 0, []*fernet.Key{key})
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt stored credential")
	}
	return string(plain), nil
}
