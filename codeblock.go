package improve

// NoExplanation is returned as the explanation when a reply carries no text after its
// first fenced block.
const NoExplanation = "No explanation provided."

// CodeBlock represents a ring-fenced code snippet extracted from markdown or other text.
// It includes metadata such as the language and an optional filename.
type CodeBlock struct {
	Language string // e.g. "python", "go", "bash"
	Code     string // The actual code snippet
	Filename string // Optional: the desired filename to write this code to
}

// ExtractionResult is the structured form of a model reply: the first fenced block and
// the text that follows it.
type ExtractionResult struct {
	Code        string `json:"modifiedCode"`
	Explanation string `json:"explanation"`
	Language    string `json:"language,omitempty"` // tag on the opening fence, if any
}
