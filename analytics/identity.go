package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"sitecms/api/models"
)

const (
	uaKeyPrefix = "ua:"
	uaHashLen   = 16
)

// VisitorKey picks the most precise identity signal an event carries:
// the user id, then the IP address, then a hash of the user agent.
// The UA bucket can merge visitors sharing a browser build; that is accepted.
func VisitorKey(e models.Event) string {
	if e.UserID != nil {
		return strconv.FormatInt(*e.UserID, 10)
	}
	if e.IPAddress != "" {
		return e.IPAddress
	}
	sum := sha256.Sum256([]byte(e.UserAgent))
	return uaKeyPrefix + hex.EncodeToString(sum[:])[:uaHashLen]
}
