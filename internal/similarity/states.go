package similarity

import "strings"

// stateCodes maps lowercase full state names to USPS codes, all 50 states
// plus DC.
var stateCodes = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
}

// stateNames is the reverse lookup, built once at init.
var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateCodes))
	for name, code := range stateCodes {
		m[code] = name
	}
	return m
}()


// StateCode resolves a state reference (full name or USPS code, any case)
// to its two-letter code.
func StateCode(s string) (string, bool) {
	n := Normalize(s)
	if code, ok := stateCodes[n]; ok {
		return code, true
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := stateNames[upper]; ok {
		return upper, true
	}
	return "", false
}

// StateName resolves a USPS code to the lowercase full state name.
func StateName(code string) (string, bool) {
	name, ok := stateNames[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// NormalizeLocation lowercases a free-text place name, rewrites full state
// names to their USPS codes (lowercased), and returns the tokens.
// "Arlington, Virginia" and "arlington va" normalize identically. State
// names are matched on whole tokens, longest span first, so "west virginia"
// becomes "wv" rather than "west va" and city names that embed a state name
// are left alone.
func NormalizeLocation(s string) []string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		for span := 3; span >= 1; span-- { // "district of columbia" spans three
			if i+span > len(tokens) {
				continue
			}
			if code, ok := stateCodes[strings.Join(tokens[i:i+span], " ")]; ok {
				out = append(out, strings.ToLower(code))
				i += span
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}
