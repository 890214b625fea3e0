package webtab

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the spreadsheet limit on sheet name length.
const MaxSheetNameLength = 31

// SheetNaming selects how export identifiers are derived from requests.
type SheetNaming string

// Sheet naming strategies.
const (
	// SheetNamingDomain names sheets after the first label of the URL host.
	SheetNamingDomain SheetNaming = "domain"

	// SheetNamingFixed names sheets after the request's position in the batch.
	SheetNamingFixed SheetNaming = "fixed"
)

// Validate returns an error for unknown naming strategies.
func (n SheetNaming) Validate() error {
	switch n {
	case SheetNamingDomain, SheetNamingFixed:
		return nil
	}
	return Errorf(ECONFIG, "unknown sheet naming %q", string(n))
}

// SheetNamer hands out unique sheet names within one export.
// Names are truncated to MaxSheetNameLength first; a name that collides
// (case-insensitively) with an earlier one gets a "_2", "_3", ... suffix,
// with the base trimmed so the result still fits.
type SheetNamer struct {
	Naming SheetNaming

	used map[string]bool
}

// NewSheetNamer returns a namer using the given strategy.
func NewSheetNamer(naming SheetNaming) *SheetNamer {
	return &SheetNamer{Naming: naming, used: make(map[string]bool)}
}

// Name returns the sheet name for the request at position (0-based).
func (n *SheetNamer) Name(rawURL string, position int) string {
	var base string
	switch n.Naming {
	case SheetNamingFixed:
		base = "Result_" + strconv.Itoa(position+1)
	default:
		base = "Result_" + domainLabel(rawURL)
	}
	base = truncateRunes(sanitizeSheetName(base), MaxSheetNameLength)

	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		name = truncateRunes(base, MaxSheetNameLength-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// domainLabel returns the first label of the URL host, e.g. "shop" for
// https://shop.example.com/items.
func domainLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	label, _, _ := strings.Cut(u.Hostname(), ".")
	if label == "" {
		return "unknown"
	}
	return label
}

// sanitizeSheetName replaces characters spreadsheets reject in sheet names.
func sanitizeSheetName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\', '\'':
			return '_'
		}
		return r
	}, name)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
