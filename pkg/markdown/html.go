package markdown

import "regexp"

// htmlBlockKind pairs the opening pattern of an HTML block with the
// pattern that ends it.
type htmlBlockKind struct {
	open  *regexp.Regexp
	close *regexp.Regexp
}

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	emptyLinePattern     = regexp.MustCompile(`^[ \t]*$`)
	commentEndPattern    = regexp.MustCompile(`-->`)
	processingEndPattern = regexp.MustCompile(`\?>`)

	// The seven HTML block start conditions, in precedence order. The last
	// one cannot interrupt a paragraph.
	htmlBlockKinds = []htmlBlockKind{
		{
			regexp.MustCompile(`(?i)^<(?:script|pre|style)(?:\s|>|$)`),
			regexp.MustCompile(`(?i)</(?:script|pre|style)>`),
		},
		{regexp.MustCompile(`^\s*<!--`), commentEndPattern},
		{regexp.MustCompile(`^\s*<\?`), processingEndPattern},
		{regexp.MustCompile(`^\s*<![A-Z]`), regexp.MustCompile(`>`)},
		{regexp.MustCompile(`^\s*<!\[CDATA\[`), regexp.MustCompile(`\]\]>`)},
		{
			regexp.MustCompile(`(?i)^\s*</?(?:address|article|aside|base|basefont|blockquote|body|caption|center|col|colgroup|dd|details|dialog|dir|div|dl|dt|fieldset|figcaption|figure|footer|form|frame|frameset|h1|h2|h3|h4|h5|h6|head|header|hr|html|iframe|legend|li|link|main|menu|menuitem|nav|noframes|ol|optgroup|option|p|param|section|source|summary|table|tbody|td|tfoot|th|thead|title|tr|track|ul)(?:\s|/?>|$)`),
			emptyLinePattern,
		},
		{
			regexp.MustCompile(`(?i)^\s*(?:</[a-z][\w-]*\s*>|<[a-z][\w-]*(?:\s+[a-z:_][\w.:-]*(?:\s*=\s*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*\s*/?>)\s*$`),
			emptyLinePattern,
		},
	}

	// Inline HTML recognizers.
	inlineAutolinkPattern = regexp.MustCompile(`(?i)^(?:[a-z][-\w+.]+:[^\s>]+|[a-z\d.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z\d](?:[a-z\d-]{0,61}[a-z\d])?(?:\.[a-z\d](?:[a-z\d-]{0,61}[a-z\d])?)*)>`)
	inlineCommentPattern  = regexp.MustCompile(`^!--(?:>|->|(?s:.)*?-->)`)
	inlineProcPattern     = regexp.MustCompile(`^\?(?s:.)*?\?>`)
	inlineTagPattern      = regexp.MustCompile(`^(?:![A-Z](?s:.)*?>|!\[CDATA\[(?s:.)*?\]\]>|/\s*[a-zA-Z][\w-]*\s*>|\s*[a-zA-Z][\w-]*(?:\s+[a-zA-Z:_][\w.:-]*(?:\s*=\s*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*\s*(?:/\s*)?>)`)
	entityPattern         = regexp.MustCompile(`(?i)^(?:#\d+|#x[a-f\d]+|\w+);`)
)

// isHTMLBlock returns the index of the matching HTML block kind, or -1.
func isHTMLBlock(line *Line, _ *BlockContext, breaking bool) int {
	if line.Next != '<' {
		return -1
	}
	rest := line.Text[line.Pos:]
	limit := len(htmlBlockKinds)
	if breaking {
		limit--
	}
	for i := range limit {
		if htmlBlockKinds[i].open.MatchString(rest) {
			return i
		}
	}
	return -1
}
