package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sitecms/api/models"
)

func TestVisitorKey_Priority(t *testing.T) {
	e := anonView(1, "1.2.3.4", "Mozilla/5.0", 42, at(0))
	e.UserID = models.Int64Ptr(7)
	assert.Equal(t, "7", VisitorKey(e), "user id wins over ip and ua")

	e.UserID = nil
	assert.Equal(t, "1.2.3.4", VisitorKey(e), "ip wins over ua")

	e.IPAddress = ""
	key := VisitorKey(e)
	assert.True(t, strings.HasPrefix(key, "ua:"))
	assert.Len(t, key, len("ua:")+16)
}

// Scenario D: an IP-identified event and a UA-only event land in different buckets.
func TestVisitorKey_IPAndUserAgentBucketsDiffer(t *testing.T) {
	ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	byIP := anonView(1, "1.2.3.4", ua, 42, at(0))
	byUA := anonView(2, "", ua, 42, at(10))

	assert.Equal(t, "1.2.3.4", VisitorKey(byIP))
	assert.NotEqual(t, VisitorKey(byIP), VisitorKey(byUA))
	assert.True(t, strings.HasPrefix(VisitorKey(byUA), "ua:"))
}

func TestVisitorKey_UserAgentHashIsStable(t *testing.T) {
	a := anonView(1, "", "Mozilla/5.0 A", 0, at(0))
	b := anonView(2, "", "Mozilla/5.0 A", 0, at(5))
	c := anonView(3, "", "Mozilla/5.0 B", 0, at(5))

	assert.Equal(t, VisitorKey(a), VisitorKey(b))
	assert.NotEqual(t, VisitorKey(a), VisitorKey(c))
}

func TestVisitorKey_NoSignalsStillNonEmpty(t *testing.T) {
	e := view(1, 0, 42, at(0))
	key := VisitorKey(e)
	assert.NotEmpty(t, key)
	assert.True(t, strings.HasPrefix(key, "ua:"))
}
