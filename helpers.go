package tablewriter

import (
	"strings"

	"github.com/lib/pq"
)

var escaper = strings.NewReplacer(
	string(EscapeCharacter), string([]byte{EscapeCharacter, EscapeCharacter}),
	string(QuoteCharacter), string([]byte{EscapeCharacter, QuoteCharacter}),
)

// Escape escapes the quote and escape characters in s so that it can be
// placed between two QuoteCharacter bytes.
func Escape(s string) string {
	return escaper.Replace(s)
}

func quote(s string) string {
	return string(QuoteCharacter) + Escape(s) + string(QuoteCharacter)
}

// CopyCommand builds the COPY statement sent on every flush. Identifiers are
// used verbatim unless quoteIdentifiers is set, in which case each one is
// double quoted and its case preserved.
func CopyCommand(table string, columns []string, quoteIdentifiers bool) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = identifier(c, quoteIdentifiers)
	}
	var b strings.Builder
	b.WriteString("COPY ")
	b.WriteString(identifier(table, quoteIdentifiers))
	b.WriteString(" (")
	b.WriteString(strings.Join(names, ","))
	b.WriteString(") ")
	b.WriteString(copyOptions)
	return b.String()
}

func identifier(name string, quoted bool) string {
	if !quoted {
		return name
	}
	// schema qualified names are quoted part by part
	parts := strings.Split(name, ".")
	for i := range parts {
		parts[i] = pq.QuoteIdentifier(parts[i])
	}
	return strings.Join(parts, ".")
}
