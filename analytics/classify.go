package analytics

import (
	"context"
	"sort"
	"strings"

	"sitecms/api/models"
)

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"

	BrowserOther = "other"
)

// deviceClasses is the order device_counts is reported in.
var deviceClasses = []string{DeviceDesktop, DeviceMobile, DeviceTablet}

type uaRule struct {
	class  string
	tokens []string
}

// Tablet rules are checked before mobile ones: many tablets also send a mobile token.
var deviceRules = []uaRule{
	{DeviceTablet, []string{"ipad", "tablet", "kindle", "silk/", "playbook"}},
	{DeviceMobile, []string{"mobi", "iphone", "ipod", "android", "blackberry", "windows phone", "opera mini"}},
}

// browserRules is evaluated top to bottom; the first match wins. Order matters:
// Edge and Opera carry a Chrome token, and Chrome carries a Safari token.
var browserRules = []uaRule{
	{"edge", []string{"edg/", "edge/", "edga/", "edgios/"}},
	{"opera", []string{"opr/", "opera"}},
	{"samsung", []string{"samsungbrowser/"}},
	{"firefox", []string{"firefox/", "fxios/"}},
	{"chrome", []string{"chrome/", "crios/", "chromium/"}},
	{"safari", []string{"safari/"}},
	{"ie", []string{"msie ", "trident/"}},
}

func matchRules(ua string, rules []uaRule) (string, bool) {
	ua = strings.ToLower(ua)
	for _, r := range rules {
		for _, t := range r.tokens {
			if strings.Contains(ua, t) {
				return r.class, true
			}
		}
	}
	return "", false
}

// ClassifyDevice maps a user agent to desktop, mobile or tablet. An empty UA is desktop.
func ClassifyDevice(ua string) string {
	if class, ok := matchRules(ua, deviceRules); ok {
		return class
	}
	return DeviceDesktop
}

// ClassifyBrowser returns the first matching browser class, or "other".
func ClassifyBrowser(ua string) string {
	if class, ok := matchRules(ua, browserRules); ok {
		return class
	}
	return BrowserOther
}

func browserRank(class string) int {
	for i, r := range browserRules {
		if r.class == class {
			return i
		}
	}
	return len(browserRules)
}

// ClassCounts builds the device and browser frequency tables. Events without a
// user agent are left out of both tables.
func ClassCounts(ctx context.Context, events []models.Event) ([]models.DeviceCount, []models.BrowserCount, error) {
	devices := make(map[string]int, len(deviceClasses))
	browsers := make(map[string]int)
	for i, e := range events {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if e.UserAgent == "" {
			continue
		}
		devices[ClassifyDevice(e.UserAgent)]++
		browsers[ClassifyBrowser(e.UserAgent)]++
	}

	deviceCounts := make([]models.DeviceCount, 0, len(deviceClasses))
	for _, class := range deviceClasses {
		deviceCounts = append(deviceCounts, models.DeviceCount{DeviceClass: class, Count: devices[class]})
	}

	browserCounts := make([]models.BrowserCount, 0, len(browsers))
	for class, n := range browsers {
		browserCounts = append(browserCounts, models.BrowserCount{BrowserClass: class, Count: n})
	}
	sort.Slice(browserCounts, func(i, j int) bool {
		if browserCounts[i].Count != browserCounts[j].Count {
			return browserCounts[i].Count > browserCounts[j].Count
		}
		return browserRank(browserCounts[i].BrowserClass) < browserRank(browserCounts[j].BrowserClass)
	})
	return deviceCounts, browserCounts, nil
}
