// Package tokenizer implements the context-driven recursive-descent
// tokenizer for MediaWiki wikicode: templates, template arguments,
// wikilinks, headings, HTML comments, HTML character entities, and the
// literal text between them.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/declerambaul/mwparserfromhell/pkg/token"
)

// defaultMarkers is the built-in set of characters the main dispatch loop
// treats as potentially significant; every other character is always
// literal text, regardless of context. Customizable via a rules file (see
// rules.go).
const defaultMarkers = "{}[]<>|=&#*;:/-!\n"

// Tokenizer holds all state for one Tokenize call: the input, the cursor,
// the frame stack, and the single global flag. It is not reentrant and not
// safe for concurrent use — exactly the contract the unchanged spec's
// concurrency section describes. Distinct Tokenizer values over distinct
// inputs are fully independent.
type Tokenizer struct {
	text []rune
	head int

	frames frameStack

	// glHeading is the one global flag: set while anywhere inside heading
	// parsing, to stop a nested "=" from starting another heading.
	glHeading bool

	// lastHeadingLevel carries the closing level handleHeadingEnd decided
	// on back out to parseHeading, which needs it to know how many of the
	// opening "=" characters were left over as literal text.
	lastHeadingLevel int

	rules *TokenizerRules
}

// NewTokenizer creates a tokenizer over text using the built-in rules.
func NewTokenizer(text string) *Tokenizer {
	return NewTokenizerWithRules(text, DefaultRules())
}

// NewTokenizerWithRules creates a tokenizer using a caller-supplied rules
// value, e.g. one produced by merging a YAML rules file over the defaults.
func NewTokenizerWithRules(text string, rules *TokenizerRules) *Tokenizer {
	return &Tokenizer{text: []rune(text), rules: rules}
}

// Tokenize is the package-level convenience entry point: build a tokenizer
// with default rules and run it once.
func Tokenize(text string) ([]*token.Token, error) {
	return NewTokenizer(text).Tokenize()
}

// Tokenize runs the tokenizer to completion and returns the flat token
// stream for the whole input. A non-nil error here reports a nil receiver
// or an internal failure, never malformed wikicode — see ERROR HANDLING in
// SPEC_FULL.md.
func (tz *Tokenizer) Tokenize() ([]*token.Token, error) {
	if tz == nil {
		return nil, fmt.Errorf("tokenizer: Tokenize called on nil *Tokenizer")
	}
	tokens, err := tz.parse(0)
	if err != nil {
		// The outermost frame is never itself a speculative sub-parse, so
		// a route failure escaping all the way out here is a bug in a
		// construct handler's recovery, not a property of the input.
		return nil, fmt.Errorf("tokenizer: internal route failure reached top level: %w", err)
	}
	return tokens, nil
}

// parse is the main dispatch loop. It pushes a fresh frame with context,
// reads one character at a time, classifies it, and either handles it
// inline or dispatches to a construct handler. It returns the frame's
// token list on a clean end (EOF outside any fail context, or a handler
// that itself pops and returns), or ErrBadRoute if the frame's construct
// never closed and context is one of the fail contexts.
func (tz *Tokenizer) parse(context Context) ([]*token.Token, error) {
	tz.frames.push(context, tz.head)

	for {
		if context.has(cComment) {
			if tz.matchAt(0, "-->") {
				return tz.frames.pop(tz.head), nil
			}
			ch, ok := tz.at()
			if !ok {
				return nil, tz.failRoute()
			}
			tz.frames.top().writeText(ch, tz.head)
			tz.head++
			continue
		}

		context = tz.frames.top().context

		ch, ok := tz.at()
		if ok && context.any(nameContexts) {
			if err := tz.verifySafety(ch); err != nil {
				return nil, err
			}
			context = tz.frames.top().context
		}

		if !ok {
			if context.any(failContexts) {
				return nil, tz.failRoute()
			}
			return tz.frames.pop(tz.head), nil
		}

		if !isMarker(ch, tz.rules) {
			tz.frames.top().writeText(ch, tz.head)
			tz.head++
			continue
		}

		done, tokens, err := tz.dispatch(ch, context)
		if err != nil {
			return nil, err
		}
		if done {
			return tokens, nil
		}
	}
}

func isMarker(ch rune, rules *TokenizerRules) bool {
	return strings.ContainsRune(rules.markerSet(), ch)
}

// dispatch implements the priority-ordered cascade from the main dispatch
// loop: each case either consumes input and returns (done=true, its
// tokens) to bubble up out of parse, or performs a side effect and returns
// (false, nil, nil) so the loop continues, or propagates a route failure.
func (tz *Tokenizer) dispatch(ch rune, context Context) (done bool, tokens []*token.Token, err error) {
	next, hasNext := tz.read(1)

	switch {
	case ch == '{' && hasNext && next == '{':
		if err := tz.parseTemplateOrArgument(); err != nil {
			return false, nil, err
		}
		tz.frames.top().context = tz.frames.top().context.without(cFailNext)
		return false, nil, nil

	case ch == '|' && context.has(cTemplate):
		tz.handleTemplateParam()
		tz.head++
		return false, nil, nil

	case ch == '=' && context.has(cTemplateParamKey):
		tz.handleTemplateParamValue()
		tz.head++
		return false, nil, nil

	case ch == '}' && hasNext && next == '}' && context.has(cTemplate):
		return true, tz.handleTemplateEnd(), nil

	case ch == '|' && context.has(cArgumentName):
		tz.handleArgumentSeparator()
		tz.head++
		return false, nil, nil

	case ch == '}' && hasNext && next == '}' && context.has(cArgument) && tz.closeRunAvailable(3):
		return true, tz.handleArgumentEnd(), nil

	case ch == '[' && hasNext && next == '[':
		if !context.has(cWikilinkTitle) {
			if err := tz.parseWikilink(); err != nil {
				return false, nil, err
			}
			return false, nil, nil
		}
		tz.frames.top().writeText(ch, tz.head)
		tz.head++
		return false, nil, nil

	case ch == '|' && context.has(cWikilinkTitle):
		tz.handleWikilinkSeparator()
		tz.head++
		return false, nil, nil

	case ch == ']' && hasNext && next == ']' && context.has(cWikilink):
		return true, tz.handleWikilinkEnd(), nil

	case ch == '=' && !tz.glHeading && tz.atLineStart():
		if err := tz.parseHeading(); err != nil {
			return false, nil, err
		}
		return false, nil, nil

	case ch == '=' && context.any(cHeadingAny) && tz.headingRunEndsLine():
		return true, tz.handleHeadingEnd(), nil

	case ch == '\n' && context.any(cHeadingAny):
		return false, nil, tz.failRoute()

	case ch == '&':
		if err := tz.parseEntity(); err != nil {
			return false, nil, err
		}
		return false, nil, nil

	case ch == '<' && tz.matchAt(0, "<!--"):
		if err := tz.parseComment(); err != nil {
			return false, nil, err
		}
		return false, nil, nil

	default:
		tz.frames.top().writeText(ch, tz.head)
		tz.head++
		return false, nil, nil
	}
}

// atLineStart reports whether the previous scalar is "\n" or EMPTY, the
// "start of line" test the heading handler's entry condition needs.
func (tz *Tokenizer) atLineStart() bool {
	prev, ok := tz.readBackwards(1)
	return !ok || prev == '\n'
}
