package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StringToUUID5 derives a stable opaque identifier from str. Used to refer to
// chats in URLs without exposing raw chat IDs.
func StringToUUID5(str string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(str)).String()
}

func HomeExpand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
