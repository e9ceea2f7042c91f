package tokenizer

// defaultNamedEntities is the built-in table of recognised HTML character
// reference names for &name; entities. It's a representative subset of the
// HTML5 named character reference table — the common markup entities plus
// the Latin-1 accented-letter block — rather than the full multi-thousand
// entry table, and can be extended via a rules file; see rules.go. A rules
// file cannot remove or replace these built-in names.
var defaultNamedEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "quot": true, "apos": true,
	"nbsp": true, "copy": true, "reg": true, "trade": true,
	"mdash": true, "ndash": true, "hellip": true, "middot": true,
	"sect": true, "para": true, "deg": true, "plusmn": true,
	"times": true, "divide": true, "frac12": true, "frac14": true, "frac34": true,
	"laquo": true, "raquo": true, "iexcl": true, "iquest": true,

	"Agrave": true, "Aacute": true, "Acirc": true, "Atilde": true, "Auml": true, "Aring": true, "AElig": true,
	"Ccedil": true, "Egrave": true, "Eacute": true, "Ecirc": true, "Euml": true,
	"Igrave": true, "Iacute": true, "Icirc": true, "Iuml": true,
	"Ntilde": true, "Ograve": true, "Oacute": true, "Ocirc": true, "Otilde": true, "Ouml": true, "Oslash": true,
	"Ugrave": true, "Uacute": true, "Ucirc": true, "Uuml": true, "Yacute": true,
	"agrave": true, "aacute": true, "acirc": true, "atilde": true, "auml": true, "aring": true, "aelig": true,
	"ccedil": true, "egrave": true, "eacute": true, "ecirc": true, "euml": true,
	"igrave": true, "iacute": true, "icirc": true, "iuml": true,
	"ntilde": true, "ograve": true, "oacute": true, "ocirc": true, "otilde": true, "ouml": true, "oslash": true,
	"ugrave": true, "uacute": true, "ucirc": true, "uuml": true, "yacute": true, "yuml": true, "szlig": true,
}

// isValidDigitForRadix reports whether ch is a valid digit in the given
// radix, generalized from the reference tokenizer's own numeric-literal
// digit check (used there for its 2..36-radix number literals, used here
// for entity digits restricted to radix 10 or 16).
func isValidDigitForRadix(ch rune, radix int) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch-'0') < radix
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a'+10) < radix
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A'+10) < radix
	default:
		return false
	}
}

// isValidDigitsForRadix reports whether every character of digits is a
// valid digit for radix, and that digits is non-empty.
func isValidDigitsForRadix(digits string, radix int) bool {
	if digits == "" {
		return false
	}
	for _, ch := range digits {
		if !isValidDigitForRadix(ch, radix) {
			return false
		}
	}
	return true
}

// validCodepoint reports whether v is a legal Unicode scalar value for a
// numeric HTML entity: in range and not a surrogate.
func validCodepoint(v int) bool {
	if v < 1 || v > 0x10FFFF {
		return false
	}
	if v >= 0xD800 && v <= 0xDFFF {
		return false
	}
	return true
}
