// Package fingerprint produces self-consistent browser identity bundles
// (User-Agent, client-hint headers, viewport, device pixel ratio) for a
// single session lifetime.
package fingerprint

import (
	"fmt"
	"math/rand"
	"strconv"
)

// chromeVersion pairs a major version with a full dotted version; both must
// be rendered together so the User-Agent and sec-ch-ua headers agree.
type chromeVersion struct {
	major string
	full  string
}

var chromeVersions = []chromeVersion{
	{"125", "125.0.6422.113"},
	{"126", "126.0.6478.127"},
	{"127", "127.0.6533.100"},
	{"128", "128.0.6613.120"},
	{"129", "129.0.6668.90"},
	{"130", "130.0.6723.117"},
	{"131", "131.0.6778.140"},
	{"132", "132.0.6834.83"},
}

type platform struct {
	name              string
	uaOS              string
	secChUaPlatform   string
	platformVersion   string
}

var platforms = []platform{
	{"windows", "Windows NT 10.0; Win64; x64", `"Windows"`, `"15.0.0"`},
	{"macos", "Macintosh; Intel Mac OS X 10_15_7", `"macOS"`, `"14.5.0"`},
	{"macos", "Macintosh; Intel Mac OS X 10_15_7", `"macOS"`, `"13.6.0"`},
	{"windows", "Windows NT 10.0; Win64; x64", `"Windows"`, `"10.0.0"`},
}

type viewport struct {
	width, height int
}

var viewports = []viewport{
	{1366, 768}, {1440, 900}, {1536, 864}, {1920, 1080},
	{2560, 1440}, {1680, 1050}, {1280, 720}, {1600, 900},
}

var dprValues = []float64{1, 1.25, 1.5, 2, 3}

type notABrandHint struct {
	name, version string
}

var notABrandHints = []notABrandHint{
	{"Not_A Brand", "24"},
	{"Not/A)Brand", "8"},
	{"Not.A/Brand", "8"},
	{"Not A(Brand", "99"},
}

// Bundle is a consistent browser fingerprint for one session: the Chrome
// version in the User-Agent matches the version in sec-ch-ua, and the
// platform in the UA matches sec-ch-ua-platform.
type Bundle struct {
	UserAgent                string
	SecChUa                  string
	SecChUaFullVersionList   string
	SecChUaPlatform          string
	SecChUaPlatformVersion   string
	SecChUaMobile            string
	ViewportWidth            int
	ViewportHeight           int
	DPR                      float64
	PlatformName             string
	ChromeMajor              string
	ChromeFull               string
}

// DefaultHeaders returns headers suitable for a page-load (navigation)
// request.
func (b Bundle) DefaultHeaders() map[string]string {
	return map[string]string{
		"accept": "text/html,application/xhtml+xml,application/xml;q=0.9," +
			"image/avif,image/webp,image/apng,*/*;q=0.8," +
			"application/signed-exchange;v=b3;q=0.7",
		"accept-language":               "en-US,en;q=0.9",
		"cache-control":                 "max-age=0",
		"dpr":                           strconv.FormatFloat(b.DPR, 'g', -1, 64),
		"sec-ch-prefers-color-scheme":   "light",
		"sec-ch-ua":                     b.SecChUa,
		"sec-ch-ua-full-version-list":   b.SecChUaFullVersionList,
		"sec-ch-ua-mobile":              b.SecChUaMobile,
		"sec-ch-ua-model":               `""`,
		"sec-ch-ua-platform":            b.SecChUaPlatform,
		"sec-ch-ua-platform-version":    b.SecChUaPlatformVersion,
		"sec-fetch-dest":                "document",
		"sec-fetch-mode":                "navigate",
		"sec-fetch-site":                "none",
		"sec-fetch-user":                "?1",
		"upgrade-insecure-requests":     "1",
		"user-agent":                    b.UserAgent,
		"viewport-width":                strconv.Itoa(b.ViewportWidth),
	}
}

// GraphQLHeaders returns headers suitable for a GraphQL XHR request.
func (b Bundle) GraphQLHeaders() map[string]string {
	return map[string]string{
		"accept":                      "*/*",
		"accept-language":             "en-US,en;q=0.9",
		"content-type":                "application/x-www-form-urlencoded",
		"origin":                      "https://www.facebook.com",
		"sec-ch-prefers-color-scheme": "light",
		"sec-ch-ua":                   b.SecChUa,
		"sec-ch-ua-mobile":            b.SecChUaMobile,
		"sec-ch-ua-platform":          b.SecChUaPlatform,
		"sec-ch-ua-platform-version":  b.SecChUaPlatformVersion,
		"sec-fetch-dest":              "empty",
		"sec-fetch-mode":              "cors",
		"sec-fetch-site":              "same-origin",
		"user-agent":                  b.UserAgent,
		"x-asbd-id":                   "359341",
	}
}

// Generate produces a randomized but internally-consistent fingerprint: the
// Chrome version, platform, viewport, and DPR all come from the same draw so
// that cross-field consistency (the External Interfaces requirement that UA
// Chrome major matches sec-ch-ua, and UA OS matches sec-ch-ua-platform)
// holds by construction.
func Generate() Bundle {
	cv := chromeVersions[rand.Intn(len(chromeVersions))]
	p := platforms[rand.Intn(len(platforms))]
	vp := viewports[rand.Intn(len(viewports))]
	dpr := dprValues[rand.Intn(len(dprValues))]
	nab := notABrandHints[rand.Intn(len(notABrandHints))]

	userAgent := fmt.Sprintf(
		"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%s.0.0.0 Safari/537.36",
		p.uaOS, cv.major,
	)
	secChUa := fmt.Sprintf(
		`"Google Chrome";v="%s", "Chromium";v="%s", "%s";v="%s"`,
		cv.major, cv.major, nab.name, nab.version,
	)
	secChUaFullVersionList := fmt.Sprintf(
		`"Google Chrome";v="%s", "Chromium";v="%s", "%s";v="%s.0.0.0"`,
		cv.full, cv.full, nab.name, nab.version,
	)

	return Bundle{
		UserAgent:              userAgent,
		SecChUa:                secChUa,
		SecChUaFullVersionList: secChUaFullVersionList,
		SecChUaPlatform:        p.secChUaPlatform,
		SecChUaPlatformVersion: p.platformVersion,
		SecChUaMobile:          "?0",
		ViewportWidth:          vp.width,
		ViewportHeight:         vp.height,
		DPR:                    dpr,
		PlatformName:           p.name,
		ChromeMajor:            cv.major,
		ChromeFull:             cv.full,
	}
}
