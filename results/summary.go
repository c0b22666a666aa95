package results

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteSummary prints the matches as a table for terminal output
func WriteSummary(w io.Writer, page *Page, showHidden bool) error {
	matches := page.Visible(showHidden)
	if len(matches) == 0 {
		msg := "No matches found."
		if hidden := page.HiddenCount(); hidden > 0 && !showHidden {
			msg = fmt.Sprintf("No matches found (%d low similarity results hidden).", hidden)
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSIMILARITY\tTITLE\tLINK")
	for i, m := range matches {
		link := ""
		if len(m.Links) > 0 {
			link = m.Links[0].URL
		}
		title := m.Title
		if title == "" && len(m.Content) > 0 {
			title = m.Content[0]
		}
		fmt.Fprintf(tw, "%d\t%.2f%%\t%s\t%s\n", i+1, m.Similarity, truncate(title, 60), link)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if hidden := page.HiddenCount(); hidden > 0 && !showHidden {
		_, err := fmt.Fprintf(w, "%d low similarity results hidden, use --hidden to list them.\n", hidden)
		return err
	}
	return nil
}

func truncate(text string, max int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max-3]) + "..."
}
