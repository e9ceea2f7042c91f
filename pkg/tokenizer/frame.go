package tokenizer

import (
	"strings"

	"github.com/declerambaul/mwparserfromhell/pkg/token"
)

// frame is the unit of speculation: a token list, a context, and a pending
// text buffer. The tokenizer owns a LIFO stack of these; the top one is
// active.
type frame struct {
	tokens  []*token.Token
	context Context
	buffer  strings.Builder

	// bufferStart is the rune offset in the input at which buffer's first
	// pending character was read, so a flushed Text token's span starts
	// where its text starts. The span's end is the position passed to
	// flush, which can lie past the text (for example after a construct's
	// closing delimiter).
	bufferStart int
}

func newFrame(context Context, start int) *frame {
	return &frame{context: context, bufferStart: start}
}

// writeText appends one scalar to the frame's pending text buffer.
func (f *frame) writeText(r rune, pos int) {
	if f.buffer.Len() == 0 {
		f.bufferStart = pos
	}
	f.buffer.WriteRune(r)
}

// flush constructs a Text token from the pending buffer, iff non-empty, and
// appends it to the frame's token list.
func (f *frame) flush(endPos int) {
	if f.buffer.Len() == 0 {
		return
	}
	f.tokens = append(f.tokens, token.NewTextToken(f.buffer.String(), token.Span{Start: f.bufferStart, End: endPos}))
	f.buffer.Reset()
}

// frameStack is the tokenizer's stack of frames.
type frameStack struct {
	frames []*frame
}

func (s *frameStack) top() *frame {
	return s.frames[len(s.frames)-1]
}

// push creates a new empty frame with the given context; it becomes active.
func (s *frameStack) push(context Context, pos int) {
	s.frames = append(s.frames, newFrame(context, pos))
}

// pop flushes, detaches the active frame, and returns its tokens. The
// parent's context is left unchanged.
func (s *frameStack) pop(pos int) []*token.Token {
	f := s.top()
	f.flush(pos)
	s.frames = s.frames[:len(s.frames)-1]
	return f.tokens
}

// popKeepingContext is like pop but replaces the new top frame's context
// with the popped frame's context. Used when a template-parameter
// key/value sub-parse must propagate its final context into its parent.
func (s *frameStack) popKeepingContext(pos int) []*token.Token {
	poppedContext := s.top().context
	tokens := s.pop(pos)
	s.top().context = poppedContext
	return tokens
}

// deleteTop discards the active frame's tokens entirely. Used on route
// failure; a plain slice truncation is enough to release it, there is no
// separate resource to close.
func (s *frameStack) deleteTop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// write appends a non-Text token to the active frame, flushing any pending
// text first so two adjacent tokens are never both Text.
func (s *frameStack) write(tok *token.Token, pos int) {
	f := s.top()
	f.flush(pos)
	f.tokens = append(f.tokens, tok)
}

// writeFirst prepends a token to the active frame's token list, used by
// the template/argument handlers to insert TemplateOpen/ArgumentOpen in
// front of a sub-parse's already-collected tokens.
func (s *frameStack) writeFirst(tok *token.Token) {
	f := s.top()
	f.tokens = append([]*token.Token{tok}, f.tokens...)
}

// writeAll splices a token list into the active frame. If the list's first
// token is a Text token, its content is merged into the pending buffer
// instead of being appended as a separate token, preserving the
// no-adjacent-Text invariant across construct boundaries.
func (s *frameStack) writeAll(tokens []*token.Token, pos int) {
	if len(tokens) == 0 {
		return
	}
	f := s.top()
	if tokens[0].IsText() {
		if f.buffer.Len() == 0 {
			f.bufferStart = tokens[0].Span.Start
		}
		f.buffer.WriteString(tokens[0].Text)
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return
	}
	f.flush(tokens[0].Span.Start)
	f.tokens = append(f.tokens, tokens...)
}

// writeTextThenStack is used by parse_template_or_argument's braces==1
// case: it writes a single literal character into the (now parent) frame's
// buffer, then splices whatever tokens a discarded speculative frame had
// already produced. Equivalent in effect to popping the frame, merging its
// leading text, and keeping the rest.
func (s *frameStack) writeTextThenStack(r rune, pos int, tokens []*token.Token) {
	f := s.top()
	f.writeText(r, pos)
	s.writeAll(tokens, pos+1)
}
