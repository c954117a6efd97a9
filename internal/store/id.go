package store

import (
	"crypto/rand"
	"fmt"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// DefaultFolderIDLength is the length of generated file folder ids.
	DefaultFolderIDLength = 7
	idMaxAttempts         = 20
)

// GenerateFolderID returns a random lowercase alphanumeric folder id of the given length.
// It retries on collisions using the provided exists function.
func GenerateFolderID(length int, exists func(string) (bool, error)) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("folder id length must be positive, got %d", length)
	}

	for i := 0; i < idMaxAttempts; i++ {
		id, err := randomAlphanumeric(length)
		if err != nil {
			return "", err
		}
		if exists == nil {
			return id, nil
		}
		ok, err := exists(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}

	return "", fmt.Errorf("unable to generate unique folder id after %d attempts", idMaxAttempts)
}

func randomAlphanumeric(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(out), nil
}
