package tokenizer

import (
	"errors"
	"strings"

	"github.com/declerambaul/mwparserfromhell/pkg/token"
)

// countBraceRun counts consecutive '{' characters starting at the head.
func (tz *Tokenizer) countBraceRun() int {
	return tz.countRun('{')
}

// countRun counts a run of ch starting at the head without moving it.
func (tz *Tokenizer) countRun(ch rune) int {
	n := 0
	for {
		got, ok := tz.read(n)
		if !ok || got != ch {
			return n
		}
		n++
	}
}

// closeRunAvailable reports whether exactly n (not n+1) of '}' sit at the
// head — the guard that keeps a longer brace run, such as the four
// closing braces in "{{{{x}}}}", from being misread as an n-brace close
// followed by a stray extra character.
func (tz *Tokenizer) closeRunAvailable(n int) bool {
	if !tz.matchAt(0, strings.Repeat("}", n)) {
		return false
	}
	extra, ok := tz.read(n)
	return !ok || extra != '}'
}

// emitLiteralBraces discards the current speculative frame and writes n
// literal '{' characters (the leftmost n of the run beginning at start) in
// front of whatever tokens that frame had already produced, into the
// parent. The head is never moved here: all n braces were already stepped
// over by the initial advance in parseTemplateOrArgument, so nothing
// remains to consume.
func (tz *Tokenizer) emitLiteralBraces(start, n int) {
	tokens := tz.frames.pop(tz.head)
	lit := token.NewTextToken(strings.Repeat("{", n), token.Span{Start: start, End: start + n})
	tz.frames.writeAll(append([]*token.Token{lit}, tokens...), tz.head)
}

// wrapFrame prepends an Open token and appends a Close token around the
// current frame's existing tokens, consuming n literal close characters at
// the head. Used once an inner template or argument has already been
// built and a further run of opening braces, consumed up front by
// parseTemplateOrArgument, still needs a matching close.
func (tz *Tokenizer) wrapFrame(open, close *token.Token, n int) {
	tz.frames.writeFirst(open)
	tz.head += n
	close.Span.Start = tz.head - n
	close.Span.End = tz.head
	tz.frames.write(close, tz.head)
}

// parseTemplateOrArgument handles a run of two or more consecutive '{'.
// A run of exactly two is a template, of exactly three is an argument; a
// longer run is resolved inside-out: the innermost two or three braces are
// given to a genuine speculative parse (argument tried before template,
// since an argument match consumes one more brace per side), and every
// further pair or triple of leftover opening braces wraps the result in
// another layer by matching a same-sized run of closing braces directly,
// with no further name parsing needed for those outer layers.
func (tz *Tokenizer) parseTemplateOrArgument() error {
	braces := tz.countBraceRun()
	start := tz.head
	tz.head += braces
	tz.frames.push(0, start)

	remaining := braces
	first := true
	for remaining > 0 {
		if remaining == 1 {
			tokens := tz.frames.pop(tz.head)
			tz.frames.writeTextThenStack('{', start, tokens)
			return nil
		}

		if first {
			first = false
			if remaining >= 3 {
				if err := tz.parseArgument(); err == nil {
					remaining -= 3
					continue
				} else if !errors.Is(err, ErrBadRoute) {
					return err
				}
			}
			if err := tz.parseTemplate(); err == nil {
				remaining -= 2
				continue
			} else if !errors.Is(err, ErrBadRoute) {
				return err
			}
			tz.emitLiteralBraces(start, remaining)
			return nil
		}

		switch {
		case remaining >= 3 && tz.closeRunAvailable(3):
			open := token.NewArgumentOpenToken(token.Span{Start: start + remaining - 3, End: start + remaining})
			tz.wrapFrame(open, token.NewArgumentCloseToken(token.Span{}), 3)
			remaining -= 3
		case remaining >= 2 && tz.matchAt(0, "}}"):
			open := token.NewTemplateOpenToken(token.Span{Start: start + remaining - 2, End: start + remaining})
			tz.wrapFrame(open, token.NewTemplateCloseToken(token.Span{}), 2)
			remaining -= 2
		default:
			tz.emitLiteralBraces(start, remaining)
			return nil
		}
	}

	tokens := tz.frames.pop(tz.head)
	tz.frames.writeAll(tokens, tz.head)
	return nil
}

// parseTemplate parses the body of a template, entered with the head just
// past "{{".
func (tz *Tokenizer) parseTemplate() error {
	reset := tz.head
	tokens, err := tz.parse(cTemplate | cTemplateName)
	if err != nil {
		tz.head = reset
		return err
	}
	tz.frames.writeFirst(token.NewTemplateOpenToken(token.Span{Start: reset - 2, End: reset}))
	tz.frames.writeAll(tokens, tz.head)
	tz.frames.write(token.NewTemplateCloseToken(token.Span{Start: tz.head - 2, End: tz.head}), tz.head)
	return nil
}

// parseArgument parses the body of a template argument, entered with the
// head just past "{{{".
func (tz *Tokenizer) parseArgument() error {
	reset := tz.head
	tokens, err := tz.parse(cArgument | cArgumentName)
	if err != nil {
		tz.head = reset
		return err
	}
	tz.frames.writeFirst(token.NewArgumentOpenToken(token.Span{Start: reset - 3, End: reset}))
	tz.frames.writeAll(tokens, tz.head)
	tz.frames.write(token.NewArgumentCloseToken(token.Span{Start: tz.head - 3, End: tz.head}), tz.head)
	return nil
}

// handleTemplateParam fires on "|" while inside TEMPLATE: it closes the
// previous parameter's key (if any) and opens a new one.
func (tz *Tokenizer) handleTemplateParam() {
	f := tz.frames.top()
	hadKey := f.context.has(cTemplateParamKey)
	f.context = f.context.without(cTemplateName | cTemplateParamValue)

	if hadKey {
		tokens := tz.frames.popKeepingContext(tz.head)
		tz.frames.writeAll(tokens, tz.head)
	} else {
		f.context = f.context.with(cTemplateParamKey)
	}
	tz.frames.write(token.NewTemplateParamSeparatorToken(token.Span{Start: tz.head, End: tz.head + 1}), tz.head)
	tz.frames.push(tz.frames.top().context, tz.head+1)
}

// handleTemplateParamValue fires on "=" while inside TEMPLATE_PARAM_KEY.
func (tz *Tokenizer) handleTemplateParamValue() {
	tokens := tz.frames.popKeepingContext(tz.head)
	tz.frames.writeAll(tokens, tz.head)
	f := tz.frames.top()
	f.context = f.context.without(cTemplateParamKey).with(cTemplateParamValue)
	tz.frames.write(token.NewTemplateParamEqualsToken(token.Span{Start: tz.head, End: tz.head + 1}), tz.head)
}

// handleTemplateEnd fires on "}}" while inside TEMPLATE; it pops and
// returns the frame's tokens directly to the dispatch loop.
func (tz *Tokenizer) handleTemplateEnd() []*token.Token {
	if tz.frames.top().context.has(cTemplateParamKey) {
		tokens := tz.frames.popKeepingContext(tz.head)
		tz.frames.writeAll(tokens, tz.head)
	}
	tz.head += 2
	return tz.frames.pop(tz.head)
}

// handleArgumentSeparator fires on "|" while inside ARGUMENT_NAME.
func (tz *Tokenizer) handleArgumentSeparator() {
	f := tz.frames.top()
	f.context = f.context.without(cArgumentName).with(cArgumentDefault)
	tz.frames.write(token.NewArgumentSeparatorToken(token.Span{Start: tz.head, End: tz.head + 1}), tz.head)
}

// handleArgumentEnd fires on "}}}" while inside ARGUMENT; it consumes all
// three closing braces.
func (tz *Tokenizer) handleArgumentEnd() []*token.Token {
	tz.head += 3
	return tz.frames.pop(tz.head)
}

// parseWikilink handles entry on "[[".
func (tz *Tokenizer) parseWikilink() error {
	start := tz.head
	tz.head += 2
	tokens, err := tz.parse(cWikilink | cWikilinkTitle)
	if err != nil {
		tz.head = start
		tz.frames.top().writeText('[', start)
		tz.frames.top().writeText('[', start+1)
		tz.head = start + 2
		return nil
	}
	tz.frames.write(token.NewWikilinkOpenToken(token.Span{Start: start, End: start + 2}), start)
	tz.frames.writeAll(tokens, tz.head)
	tz.frames.write(token.NewWikilinkCloseToken(token.Span{Start: tz.head - 2, End: tz.head}), tz.head)
	return nil
}

// handleWikilinkSeparator fires on "|" while inside WIKILINK_TITLE.
func (tz *Tokenizer) handleWikilinkSeparator() {
	f := tz.frames.top()
	f.context = f.context.without(cWikilinkTitle).with(cWikilinkText)
	tz.frames.write(token.NewWikilinkSeparatorToken(token.Span{Start: tz.head, End: tz.head + 1}), tz.head)
}

// handleWikilinkEnd fires on "]]" while inside WIKILINK.
func (tz *Tokenizer) handleWikilinkEnd() []*token.Token {
	tz.head += 2
	return tz.frames.pop(tz.head)
}

// headingRunEndsLine reports whether the run of '=' at the head runs
// straight into a newline or end of input — the real terminator test a
// MediaWiki heading line uses: only a run that reaches the end of the
// line can close a heading, so a stray "=" in the middle of a title is
// just title text.
func (tz *Tokenizer) headingRunEndsLine() bool {
	run := tz.countRun('=')
	ch, ok := tz.read(run)
	return !ok || ch == '\n'
}

// parseHeading handles entry on "=" at start-of-line, outside any heading.
func (tz *Tokenizer) parseHeading() error {
	tz.glHeading = true
	defer func() { tz.glHeading = false }()

	start := tz.head
	openRun := tz.countRun('=')
	current := openRun
	if current > 6 {
		current = 6
	}
	tz.head = start + openRun

	tokens, err := tz.parse(headingLevelContext(current))
	if err != nil {
		tz.head = start
		for i := 0; i < openRun; i++ {
			tz.frames.top().writeText('=', start+i)
		}
		tz.head = start + openRun
		return nil
	}

	level := tz.lastHeadingLevel
	extraOpen := openRun - level
	for i := 0; i < extraOpen; i++ {
		tz.frames.top().writeText('=', start+i)
	}
	headingStart := start + extraOpen
	tz.frames.write(token.NewHeadingStartToken(level, token.Span{Start: headingStart, End: headingStart + level}), headingStart)
	tz.frames.writeAll(tokens, tz.head)
	tz.frames.write(token.NewHeadingEndToken(token.Span{Start: tz.head - level, End: tz.head}), tz.head)
	return nil
}

// handleHeadingEnd fires only once headingRunEndsLine has confirmed the
// run at the head is the true terminator. The closing level is whichever
// is smaller of the run length and the level this frame opened at; any
// excess closing "=" become trailing literal text inside the title.
func (tz *Tokenizer) handleHeadingEnd() []*token.Token {
	f := tz.frames.top()
	current := headingOpenCount(f.context)
	run := tz.countRun('=')
	level := run
	if level > current {
		level = current
	}
	if level > 6 {
		level = 6
	}

	extra := run - level
	for i := 0; i < extra; i++ {
		tz.frames.top().writeText('=', tz.head+i)
	}
	tz.head += extra
	tz.lastHeadingLevel = level
	tz.head += level
	return tz.frames.pop(tz.head)
}

// parseComment handles entry on "<!--".
func (tz *Tokenizer) parseComment() error {
	start := tz.head
	tz.head += 4
	tokens, err := tz.parse(cComment)
	if err != nil {
		tz.head = start
		for i, r := range []rune("<!--") {
			tz.frames.top().writeText(r, start+i)
		}
		tz.head = start + 4
		return nil
	}
	tz.frames.write(token.NewCommentStartToken(token.Span{Start: start, End: start + 4}), start)
	tz.frames.writeAll(tokens, tz.head)
	tz.frames.write(token.NewCommentEndToken(token.Span{Start: tz.head, End: tz.head + 3}), tz.head)
	tz.head += 3
	return nil
}

// parseEntity handles entry on "&": named (&name;), decimal (&#NNN;), and
// hex (&#xHH;/&#XHH;) character references. A malformed or unrecognised
// reference falls back to a literal "&" with whatever characters follow
// left untouched for the caller to reprocess as ordinary text.
func (tz *Tokenizer) parseEntity() error {
	start := tz.head
	tz.frames.push(0, start)
	tz.head++

	if !tz.tryParseEntityBody(start) {
		tz.frames.deleteTop()
		tz.head = start
		tz.frames.top().writeText('&', start)
		tz.head++
		return nil
	}

	tokens := tz.frames.pop(tz.head)
	tz.frames.writeAll(tokens, tz.head)
	return nil
}

func (tz *Tokenizer) tryParseEntityBody(start int) bool {
	f := tz.frames.top()
	f.tokens = append(f.tokens, token.NewHTMLEntityStartToken(token.Span{Start: start, End: tz.head}))

	isHash, isHex := false, false
	if ch, ok := tz.at(); ok && ch == '#' {
		isHash = true
		f.tokens = append(f.tokens, token.NewHTMLEntityNumericToken(token.Span{Start: tz.head, End: tz.head + 1}))
		tz.head++
		if ch2, ok2 := tz.at(); ok2 && (ch2 == 'x' || ch2 == 'X') {
			isHex = true
			f.tokens = append(f.tokens, token.NewHTMLEntityHexToken(token.Span{Start: tz.head, End: tz.head + 1}))
			tz.head++
		}
	}

	bodyStart := tz.head
	for {
		ch, ok := tz.at()
		if !ok || ch == ';' {
			break
		}
		tz.head++
	}
	body := string(tz.text[bodyStart:tz.head])

	ch, ok := tz.at()
	if !ok || ch != ';' {
		return false
	}

	switch {
	case isHash && isHex:
		if !isValidDigitsForRadix(body, 16) || !validCodepoint(parseIntBase(body, 16)) {
			return false
		}
	case isHash:
		if !isValidDigitsForRadix(body, 10) || !validCodepoint(parseIntBase(body, 10)) {
			return false
		}
	default:
		if body == "" || !tz.rules.isNamedEntity(body) {
			return false
		}
	}

	f.tokens = append(f.tokens, token.NewTextToken(body, token.Span{Start: bodyStart, End: tz.head}))
	f.tokens = append(f.tokens, token.NewHTMLEntityEndToken(token.Span{Start: tz.head, End: tz.head + 1}))
	tz.head++
	return true
}

// parseIntBase parses digits (already validated against the radix) into
// an int.
func parseIntBase(digits string, base int) int {
	v := 0
	for _, ch := range digits {
		var d int
		switch {
		case ch >= '0' && ch <= '9':
			d = int(ch - '0')
		case ch >= 'a' && ch <= 'z':
			d = int(ch-'a') + 10
		case ch >= 'A' && ch <= 'Z':
			d = int(ch-'A') + 10
		}
		v = v*base + d
	}
	return v
}
