package agent

import (
	"fmt"
	"strings"
)

const improvePromptTemplate = `
Analyze the following game development code snippet. Provide improvements focusing on:

1. Performance Optimization: Enhance frame rates and reduce latency.
2. Memory Management: Optimize resource loading and garbage collection.
3. Code Readability: Refactor for clarity and maintainability.
4. Best Practices: Align with industry standards for game development.
5. Security: Identify and mitigate potential vulnerabilities.

Here is the code:
%s

The user request is:
"%s"

Rewrite the code and explain what changed.
Reply with the complete rewritten code in a single T_B_T fenced block first, then the explanation as plain text after the block.
`

// BuildPrompt combines the selected code and the user's instruction into the
// instruction sent to the model.
func BuildPrompt(code, instruction string) string {
	return fmt.Sprintf(
		strings.ReplaceAll(improvePromptTemplate, "T_B_T", "```"),
		code,
		strings.TrimSpace(instruction),
	)
}
