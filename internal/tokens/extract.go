package tokens

import "regexp"

// patternSet is an ordered list of regexes for one token key; the first
// pattern with a match wins, per §4.2's declared-priority-order extraction
// rule.
type patternSet struct {
	key      string
	patterns []*regexp.Regexp
}

var lsdPatterns = patternSet{
	key: "lsd",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`"LSD",\[\],\{"token":"([^"]+)"\}`),
		regexp.MustCompile(`\["LSD",\[\],\{"token":"([^"]+)"`),
		regexp.MustCompile(`"lsd":"([^"]+)"`),
		regexp.MustCompile(`name="lsd" value="([^"]+)"`),
	},
}

// revPatterns feeds both __rev and __spin_r from the same match, matching
// the Python source's behavior of writing the captured group to both keys.
var revPatterns = patternSet{
	key: "__rev",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`"__spin_r":(\d+)`),
		regexp.MustCompile(`"server_revision":(\d+)`),
		regexp.MustCompile(`"revision":(\d+)`),
		regexp.MustCompile(`\{"__spin_r":(\d+)`),
	},
}

var spinTPattern = regexp.MustCompile(`"__spin_t":(\d+)`)
var spinBPattern = regexp.MustCompile(`"__spin_b":"([^"]+)"`)

var hsiPatterns = patternSet{
	key: "__hsi",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`"__hsi":"(\d+)"`),
		regexp.MustCompile(`"hsi":"(\d+)"`),
	},
}

var fbDtsgPattern = regexp.MustCompile(`"DTSGInitialData",\[\],\{"token":"([^"]+)"`)
var dynPattern = regexp.MustCompile(`"__dyn":"([^"]+)"`)
var csrPattern = regexp.MustCompile(`"__csr":"([^"]+)"`)
var hsPattern = regexp.MustCompile(`"__hs":"([^"]+)"`)
var hsdpPattern = regexp.MustCompile(`"__hsdp":"([^"]+)"`)
var hblpPattern = regexp.MustCompile(`"__hblp":"([^"]+)"`)
var cometReqPattern = regexp.MustCompile(`"__comet_req":(\d+)`)
var jazoestPattern = regexp.MustCompile(`"jazoest["\s:]+(\d+)`)
var apiVersionPattern = regexp.MustCompile(`"v"\s*:\s*"([a-f0-9]{4,10})"`)

var asbdIDPatterns = patternSet{
	key: "x-asbd-id",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`"asbd_id"\s*:\s*"?(\d+)"?`),
		regexp.MustCompile(`x-asbd-id["\s:]+(\d+)`),
	},
}

func firstMatch(ps patternSet, html string) (string, bool) {
	for _, p := range ps.patterns {
		if m := p.FindStringSubmatch(html); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

// ExtractFromHTML runs the full priority-ordered regex set against a single
// scanned fragment (normally one <script> tag's text) and merges any hits
// into store. Call once per script tag; later calls never overwrite a key
// already populated by an earlier one, matching the "first match wins"
// extraction rule across the whole document.
func (s *Store) ExtractFromHTML(html string) {
	if s.values == nil {
		s.values = map[string]string{}
	}

	if _, ok := s.values["lsd"]; !ok {
		if v, ok := firstMatch(lsdPatterns, html); ok {
			s.values["lsd"] = v
		}
	}
	if _, ok := s.values["__rev"]; !ok {
		if v, ok := firstMatch(revPatterns, html); ok {
			s.values["__rev"] = v
			s.values["__spin_r"] = v
		}
	}
	if _, ok := s.values["__spin_t"]; !ok {
		if m := spinTPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__spin_t"] = m[1]
		}
	}
	if _, ok := s.values["__spin_b"]; !ok {
		if m := spinBPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__spin_b"] = m[1]
		}
	}
	if _, ok := s.values["__hsi"]; !ok {
		if v, ok := firstMatch(hsiPatterns, html); ok {
			s.values["__hsi"] = v
		}
	}
	if _, ok := s.values["fb_dtsg"]; !ok {
		if m := fbDtsgPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["fb_dtsg"] = m[1]
		}
	}
	if _, ok := s.values["__dyn"]; !ok {
		if m := dynPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__dyn"] = m[1]
		}
	}
	if _, ok := s.values["__csr"]; !ok {
		if m := csrPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__csr"] = m[1]
		}
	}
	if _, ok := s.values["__hs"]; !ok {
		if m := hsPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__hs"] = m[1]
		}
	}
	if _, ok := s.values["__hsdp"]; !ok {
		if m := hsdpPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__hsdp"] = m[1]
		}
	}
	if _, ok := s.values["__hblp"]; !ok {
		if m := hblpPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__hblp"] = m[1]
		}
	}
	if _, ok := s.values["__comet_req"]; !ok {
		if m := cometReqPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["__comet_req"] = m[1]
		}
	}
	if _, ok := s.values["jazoest"]; !ok {
		if m := jazoestPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["jazoest"] = m[1]
		}
	}
	if _, ok := s.values["v"]; !ok {
		if m := apiVersionPattern.FindStringSubmatch(html); len(m) > 1 {
			s.values["v"] = m[1]
		}
	}
	if _, ok := s.values["x-asbd-id"]; !ok {
		if v, ok := firstMatch(asbdIDPatterns, html); ok {
			s.values["x-asbd-id"] = v
		}
	}
}

// docIDPattern1 matches a __d(...) relay registration for a query name
// containing AdLibrary and ending in Query (both DocQuerySearch and
// DocQueryTypeahead) with a nearby 10-20 digit numeric id.
var docIDPattern1 = regexp.MustCompile(`__d\("(\w*AdLibrary\w+Query)[^"]*"[^)]*\)[\s\S]*?["'](\d{10,20})["']`)

// docIDPattern2 matches name-then-queryID, within a 200-char window.
var docIDPattern2 = regexp.MustCompile(`"(?:name|operationName)"\s*:\s*"(\w*AdLibrary\w+Query)"[^}]{0,200}"(?:queryID|id|doc_id)"\s*:\s*"(\d{10,20})"`)

// docIDPattern3 matches the reverse order: queryID first, then name.
var docIDPattern3 = regexp.MustCompile(`"(?:queryID|id|doc_id)"\s*:\s*"(\d{10,20})"[^}]{0,200}"(?:name|operationName)"\s*:\s*"(\w*AdLibrary\w+Query)"`)

// ExtractDocIDs scans html for the two named GraphQL document ids using the
// three regex strategies declared above, in order. A name already present
// in the store is never overwritten by a later pattern.
//
// TODO(doc-id staleness): a deploy that changes query names without
// changing the page's script shape can make these regexes miss the new
// id entirely, surfacing a stale cached value instead. The fix applied here
// is to never cache doc ids across a session refresh -- ExtractDocIDs runs
// again on every fresh landing-page load, never reusing a prior session's
// values.
func (s *Store) ExtractDocIDs(html string) {
	if s.docIDs == nil {
		s.docIDs = map[string]string{}
	}

	apply := func(matches [][]string, nameFirst bool) {
		for _, m := range matches {
			name, id := m[1], m[2]
			if !nameFirst {
				id, name = m[1], m[2]
			}
			if _, ok := s.docIDs[name]; !ok {
				s.docIDs[name] = id
			}
		}
	}

	apply(docIDPattern1.FindAllStringSubmatch(html, -1), true)
	apply(docIDPattern2.FindAllStringSubmatch(html, -1), true)
	apply(docIDPattern3.FindAllStringSubmatch(html, -1), false)
}
