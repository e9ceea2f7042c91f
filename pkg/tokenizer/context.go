package tokenizer

// Context is the per-frame bitset describing what construct the active
// frame is parsing and what single-character look-ahead hazards are armed.
// Subset checks dominate the dispatch cascade and must stay O(1); that's
// why this is a plain bitwise type rather than a struct of bools.
type Context uint32

const (
	cTemplate          Context = 1 << iota // TEMPLATE
	cTemplateName                          // TEMPLATE_NAME (implies TEMPLATE)
	cTemplateParamKey                      // TEMPLATE_PARAM_KEY (implies TEMPLATE)
	cTemplateParamValue                    // TEMPLATE_PARAM_VALUE (implies TEMPLATE)

	cArgument        // ARGUMENT
	cArgumentName     // ARGUMENT_NAME (implies ARGUMENT)
	cArgumentDefault  // ARGUMENT_DEFAULT (implies ARGUMENT)

	cWikilink      // WIKILINK
	cWikilinkTitle // WIKILINK_TITLE (implies WIKILINK)
	cWikilinkText  // WIKILINK_TEXT (implies WIKILINK)

	cComment // COMMENT

	// Heading sub-levels occupy six consecutive bits so that the opening
	// count can be recovered as a bit position, per the "current =
	// log2(context / HEADING_LEVEL_1) + 1" rule.
	cHeadingLevel1
	cHeadingLevel2
	cHeadingLevel3
	cHeadingLevel4
	cHeadingLevel5
	cHeadingLevel6

	// Safety state, meaningful only inside TEMPLATE_NAME, WIKILINK_TITLE,
	// TEMPLATE_PARAM_KEY or ARGUMENT_NAME.
	cFailNext
	cFailOnLBrace
	cFailOnRBrace
	cHasText
	cFailOnText
)

const cHeadingAny = cHeadingLevel1 | cHeadingLevel2 | cHeadingLevel3 | cHeadingLevel4 | cHeadingLevel5 | cHeadingLevel6

// nameContexts is the set of contexts the safety verifier runs under.
const nameContexts = cTemplateName | cWikilinkTitle | cTemplateParamKey | cArgumentName

// failContexts is the set of contexts for which reaching EMPTY mid-parse
// means an unclosed construct: fail the route rather than returning
// normally. WIKILINK is included per the resolution recorded in
// SPEC_FULL.md section 6.7 and DESIGN.md.
const failContexts = cTemplate | cArgument | cWikilink | cHeadingAny | cComment

// has reports whether all bits in flags are set in c.
func (c Context) has(flags Context) bool {
	return c&flags == flags
}

// any reports whether c has any bit in common with flags.
func (c Context) any(flags Context) bool {
	return c&flags != 0
}

// with returns c with flags set.
func (c Context) with(flags Context) Context {
	return c | flags
}

// without returns c with flags cleared.
func (c Context) without(flags Context) Context {
	return c &^ flags
}

// headingLevelContext returns the single-bit context for a 1..6 heading
// level, clamped to the valid range.
func headingLevelContext(level int) Context {
	switch {
	case level <= 1:
		return cHeadingLevel1
	case level >= 6:
		return cHeadingLevel6
	default:
		return cHeadingLevel1 << (level - 1)
	}
}

// headingOpenCount recovers the opening "=" count implied by whichever
// HEADING_LEVEL_n bit is set in c. Returns 0 if none is set.
func headingOpenCount(c Context) int {
	bits := c & cHeadingAny
	level := 1
	for b := cHeadingLevel1; b <= cHeadingLevel6; b <<= 1 {
		if bits == b {
			return level
		}
		level++
	}
	return 0
}
