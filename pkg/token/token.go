// Package token defines the token vocabulary produced by pkg/tokenizer.
//
// The tokenizer core treats tokens as opaque values it builds exclusively
// through the constructors in this file. It never populates a Token literal
// directly, so every field that a given Kind doesn't use stays at its zero
// value and is omitted from JSON output.
package token

import "encoding/json"

// Kind identifies which construct a token represents.
type Kind string

const (
	Text Kind = "Text"

	TemplateOpen          Kind = "TemplateOpen"
	TemplateParamSeparator Kind = "TemplateParamSeparator"
	TemplateParamEquals    Kind = "TemplateParamEquals"
	TemplateClose          Kind = "TemplateClose"

	ArgumentOpen      Kind = "ArgumentOpen"
	ArgumentSeparator Kind = "ArgumentSeparator"
	ArgumentClose     Kind = "ArgumentClose"

	WikilinkOpen      Kind = "WikilinkOpen"
	WikilinkSeparator Kind = "WikilinkSeparator"
	WikilinkClose     Kind = "WikilinkClose"

	HTMLEntityStart   Kind = "HTMLEntityStart"
	HTMLEntityNumeric Kind = "HTMLEntityNumeric"
	HTMLEntityHex     Kind = "HTMLEntityHex"
	HTMLEntityEnd     Kind = "HTMLEntityEnd"

	HeadingStart Kind = "HeadingStart"
	HeadingEnd   Kind = "HeadingEnd"

	CommentStart Kind = "CommentStart"
	CommentEnd   Kind = "CommentEnd"
)

// Span is the half-open range of rune offsets in the original input that a
// token covers. It exists for tooling (the CLI, diagnostics) — the core
// parse algorithm never inspects it.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is the single value type produced by the tokenizer. Most fields are
// only meaningful for one or two Kinds; the optional fields (Text, and
// Level as a pointer) carry omitempty so encoding/json omits them for
// every other kind.
type Token struct {
	Kind Kind `json:"kind"`
	Span Span `json:"span"`

	// Text holds the literal content for a Text token. It is mutable: the
	// frame stack's writeAll merges an adjacent leading Text token into a
	// pending buffer by reading and then discarding this field.
	Text string `json:"text,omitempty"`

	// Level is set only on HeadingStart, 1..6.
	Level *int `json:"level,omitempty"`
}

// IsText reports whether tok is a Text token — the one fact about a token's
// identity the frame stack needs in order to merge buffers during a splice.
func (tok *Token) IsText() bool {
	return tok != nil && tok.Kind == Text
}

// MarshalJSON keeps the wire form stable across Go struct field reordering;
// the CLI consumer only ever needs kind/span/text/level, in that order.
func (tok *Token) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind  Kind   `json:"kind"`
		Span  Span   `json:"span"`
		Text  string `json:"text,omitempty"`
		Level *int   `json:"level,omitempty"`
	}
	return json.Marshal(wire{Kind: tok.Kind, Span: tok.Span, Text: tok.Text, Level: tok.Level})
}

func NewTextToken(text string, span Span) *Token {
	return &Token{Kind: Text, Span: span, Text: text}
}

func NewTemplateOpenToken(span Span) *Token          { return &Token{Kind: TemplateOpen, Span: span} }
func NewTemplateParamSeparatorToken(span Span) *Token {
	return &Token{Kind: TemplateParamSeparator, Span: span}
}
func NewTemplateParamEqualsToken(span Span) *Token {
	return &Token{Kind: TemplateParamEquals, Span: span}
}
func NewTemplateCloseToken(span Span) *Token { return &Token{Kind: TemplateClose, Span: span} }

func NewArgumentOpenToken(span Span) *Token      { return &Token{Kind: ArgumentOpen, Span: span} }
func NewArgumentSeparatorToken(span Span) *Token { return &Token{Kind: ArgumentSeparator, Span: span} }
func NewArgumentCloseToken(span Span) *Token     { return &Token{Kind: ArgumentClose, Span: span} }

func NewWikilinkOpenToken(span Span) *Token      { return &Token{Kind: WikilinkOpen, Span: span} }
func NewWikilinkSeparatorToken(span Span) *Token { return &Token{Kind: WikilinkSeparator, Span: span} }
func NewWikilinkCloseToken(span Span) *Token     { return &Token{Kind: WikilinkClose, Span: span} }

func NewHTMLEntityStartToken(span Span) *Token   { return &Token{Kind: HTMLEntityStart, Span: span} }
func NewHTMLEntityNumericToken(span Span) *Token { return &Token{Kind: HTMLEntityNumeric, Span: span} }
func NewHTMLEntityHexToken(span Span) *Token     { return &Token{Kind: HTMLEntityHex, Span: span} }
func NewHTMLEntityEndToken(span Span) *Token     { return &Token{Kind: HTMLEntityEnd, Span: span} }

// NewHeadingStartToken requires level in [1, 6]; the tokenizer's own clamp
// in the heading handler is what keeps that contract, not this constructor.
func NewHeadingStartToken(level int, span Span) *Token {
	return &Token{Kind: HeadingStart, Span: span, Level: &level}
}
func NewHeadingEndToken(span Span) *Token { return &Token{Kind: HeadingEnd, Span: span} }

func NewCommentStartToken(span Span) *Token { return &Token{Kind: CommentStart, Span: span} }
func NewCommentEndToken(span Span) *Token   { return &Token{Kind: CommentEnd, Span: span} }
