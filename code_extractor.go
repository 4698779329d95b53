package improve

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
)

// CodeExtractor defines the interface for extracting code blocks from text.
type CodeExtractor interface {
	Extract(reply string) ExtractionResult
	ExtractCodeBlocks(input string) []CodeBlock
}

// MarkdownCodeExtractor implements CodeExtractor for Markdown-formatted text.
type MarkdownCodeExtractor struct{}

// Regular expressions to identify code blocks and filename comments.
//
// An opening fence is a line starting with three backticks, an optional language
// token and an info string without backticks. A closing fence is the next line made
// of three backticks only. The body match is non-greedy so the first closing fence wins.
var (
	codeBlockRe       = regexp.MustCompile("(?ms)^ {0,3}```([^\\s`]*)[^\\n`]*\\n(.*?)^ {0,3}```[ \\t\\r]*$")
	filenameCommentRe = regexp.MustCompile(`(?m)^\s*(?://|#)\s*filename:\s*(.+)$`)
)

// Extract splits a model reply into the first fenced code block and the explanation
// that follows it. It never fails: a reply without a block yields empty code and the
// NoExplanation sentinel.
func Extract(reply string) ExtractionResult {
	return MarkdownCodeExtractor{}.Extract(reply)
}

// Extract implements CodeExtractor.
func (m MarkdownCodeExtractor) Extract(reply string) ExtractionResult {
	loc := codeBlockRe.FindStringSubmatchIndex(reply)
	if loc == nil {
		return ExtractionResult{Explanation: NoExplanation}
	}
	result := ExtractionResult{
		Language:    reply[loc[2]:loc[3]],
		Code:        strings.TrimSpace(reply[loc[4]:loc[5]]),
		Explanation: strings.TrimSpace(reply[loc[1]:]),
	}
	if result.Explanation == "" {
		result.Explanation = NoExplanation
	}
	return result
}

// ExtractCodeBlocks parses the input text and returns a slice of CodeBlocks.
func (m MarkdownCodeExtractor) ExtractCodeBlocks(input string) []CodeBlock {
	matches := codeBlockRe.FindAllStringSubmatch(input, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, match := range matches {
		language := strings.TrimSpace(match[1])
		code := strings.TrimSpace(match[2])
		filename := extractFilenameFromComment(code)
		if filename == "" {
			// Fallback: generate a filename based on a hash of the code.
			hash := fmt.Sprintf("%x", md5.Sum([]byte(code)))[:8]
			filename = fmt.Sprintf("improve_code_%s.%s", hash, languageToExt(language))
		}
		blocks = append(blocks, CodeBlock{
			Language: language,
			Code:     code,
			Filename: filename,
		})
	}
	return blocks
}

// extractFilenameFromComment searches for a filename comment within the code block.
func extractFilenameFromComment(code string) string {
	m := filenameCommentRe.FindStringSubmatch(code)
	if len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// languageToExt maps programming languages to their typical file extensions.
func languageToExt(lang string) string {
	switch strings.ToLower(lang) {
	case "go", "golang":
		return "go"
	case "python", "py":
		return "py"
	case "bash", "shell", "sh":
		return "sh"
	case "javascript", "js":
		return "js"
	case "typescript", "ts":
		return "ts"
	case "csharp", "cs", "c#":
		return "cs"
	case "cpp", "c++":
		return "cpp"
	case "lua":
		return "lua"
	case "gdscript":
		return "gd"
	default:
		return "txt"
	}
}
