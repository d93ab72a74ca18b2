package design

import (
	"fmt"
	"io"
	"strings"
)

// WriteSummary renders ideas as plain text for terminals.
func WriteSummary(w io.Writer, ideas DesignIdeas) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Style analysis\n  %s\n\n", ideas.CurrentStyle)
	writeConcept(&b, "Redesign", ideas.RedesignConcept)

	b.WriteString("Color palette\n ")
	for _, color := range ideas.ColorPalette {
		fmt.Fprintf(&b, " %s", color)
	}
	b.WriteString("\n\n")

	b.WriteString("Shopping list\n")
	for _, idea := range ideas.ShoppingIdeas {
		fmt.Fprintf(&b, "  - %s (%s)\n", idea.Item, idea.EstimatedPrice)
	}
	b.WriteString("\n")

	writeConcept(&b, "Alternative", ideas.AlternativeConcept)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeConcept(b *strings.Builder, heading string, concept DesignConcept) {
	fmt.Fprintf(b, "%s: %s\n  %s\n", heading, concept.Title, concept.Description)
	for _, s := range concept.Suggestions {
		fmt.Fprintf(b, "  - %s\n", s)
	}
	b.WriteString("\n")
}
