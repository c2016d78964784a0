package registry

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column is a logical registry column.
type Column int

// Logical columns in resolution order.
const (
	ColumnID Column = iota
	ColumnSubsidy
	ColumnName
)

func (c Column) String() string {
	switch c {
	case ColumnID:
		return "identifier"
	case ColumnSubsidy:
		return "subsidy"
	case ColumnName:
		return "name"
	default:
		return "unknown"
	}
}

// Default rule tokens.
const (
	DefaultIDPrefix         = "id"
	DefaultSubsidySubstring = "aport"
	DefaultNameSubstring    = "nombre"
)

// Rule resolves one logical column against normalized header names.
// Rules run in order and a header claimed by an earlier rule is not
// offered to later ones.
type Rule struct {
	Column   Column
	Desc     string
	Required bool
	Match    func(normalized string) bool
}

// Prefix builds a rule matching headers that start with token.
func Prefix(col Column, token string, required bool) Rule {
	token = NormalizeHeader(token)
	return Rule{
		Column:   col,
		Desc:     fmt.Sprintf("starts with %q", token),
		Required: required,
		Match:    func(h string) bool { return strings.HasPrefix(h, token) },
	}
}

// Substring builds a rule matching headers that contain token.
func Substring(col Column, token string, required bool) Rule {
	token = NormalizeHeader(token)
	return Rule{
		Column:   col,
		Desc:     fmt.Sprintf("contains %q", token),
		Required: required,
		Match:    func(h string) bool { return strings.Contains(h, token) },
	}
}

// Tokens configures the rule set.
type Tokens struct {
	IDPrefix         string
	SubsidySubstring string
	NameSubstring    string
}

// DefaultTokens returns the stock tokens.
func DefaultTokens() Tokens {
	return Tokens{
		IDPrefix:         DefaultIDPrefix,
		SubsidySubstring: DefaultSubsidySubstring,
		NameSubstring:    DefaultNameSubstring,
	}
}

// Rules returns the ordered rule list for the tokens. Empty tokens fall
// back to the defaults.
func (t Tokens) Rules() []Rule {
	d := DefaultTokens()
	if strings.TrimSpace(t.IDPrefix) == "" {
		t.IDPrefix = d.IDPrefix
	}
	if strings.TrimSpace(t.SubsidySubstring) == "" {
		t.SubsidySubstring = d.SubsidySubstring
	}
	if strings.TrimSpace(t.NameSubstring) == "" {
		t.NameSubstring = d.NameSubstring
	}
	return []Rule{
		Prefix(ColumnID, t.IDPrefix, true),
		Substring(ColumnSubsidy, t.SubsidySubstring, false),
		Substring(ColumnName, t.NameSubstring, false),
	}
}

// NormalizeHeader folds accents, drops dots, lower-cases and collapses
// whitespace, underscore and hyphen runs into a single underscore.
func NormalizeHeader(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(folded), ".", ""))

	var b strings.Builder
	pending := false
	for _, r := range folded {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}
