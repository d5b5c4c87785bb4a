package matcher

import "github.com/samtetlow/nof1-sub000/internal/similarity"

// Clearance levels, strictly ordered. None is the floor.
const (
	ClearanceNone        = "None"
	ClearancePublicTrust = "Public Trust"
	ClearanceConfid      = "Confidential"
	ClearanceSecret      = "Secret"
	ClearanceTopSecret   = "Top Secret"
)

var clearanceRank = map[string]int{
	ClearanceNone:        0,
	ClearancePublicTrust: 1,
	ClearanceConfid:      2,
	ClearanceSecret:      3,
	ClearanceTopSecret:   4,
}

// clearanceAliases normalizes the format variants seen in solicitation text
// and company profiles.
var clearanceAliases = map[string]string{
	"ts":             ClearanceTopSecret,
	"ts/sci":         ClearanceTopSecret,
	"top secret/sci": ClearanceTopSecret,
	"top secret sci": ClearanceTopSecret,
	"top secret":     ClearanceTopSecret,
	"secret":         ClearanceSecret,
	"confidential":   ClearanceConfid,
	"public trust":   ClearancePublicTrust,
	"none":           ClearanceNone,
	"":               ClearanceNone,
}

// NormalizeClearance maps a clearance string to its canonical level.
// Unrecognized values normalize to None.
func NormalizeClearance(s string) string {
	if level, ok := clearanceAliases[similarity.Normalize(s)]; ok {
		return level
	}
	return ClearanceNone
}

// ClearanceRank returns the position of a clearance string in the hierarchy,
// after normalization.
func ClearanceRank(s string) int {
	return clearanceRank[NormalizeClearance(s)]
}

// MeetsClearance reports whether any held clearance is at or above the
// required level. An empty requirement is always met.
func MeetsClearance(required string, held []string) bool {
	req := ClearanceRank(required)
	if req == 0 {
		return true
	}
	for _, h := range held {
		if ClearanceRank(h) >= req {
			return true
		}
	}
	return false
}
