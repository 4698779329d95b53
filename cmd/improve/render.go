package main

import (
	"fmt"
	"io"

	improve "aiupstart.com/go-improve"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

// render prints the modified code and the explanation. Plain output is the raw text;
// otherwise both go through glamour as markdown.
func render(w io.Writer, result improve.ExtractionResult, plain bool) error {
	if plain {
		_, err := fmt.Fprintf(w, "AI-Improved Code\n\n%s\n\nExplanation\n\n%s\n", result.Code, result.Explanation)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	code, err := r.Render("```" + result.Language + "\n" + result.Code + "\n```\n")
	if err != nil {
		return err
	}
	explanation, err := r.Render(result.Explanation)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s\n%s", headerStyle.Render("AI-Improved Code"), code, headerStyle.Render("Explanation"), explanation)
	return err
}
