package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"clementus360/wellness-sessions/types"
)

const timeLayout = "Jan 2 2006, 3:04PM"

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// RenderPublic writes the public listing as a table.
func RenderPublic(w io.Writer, list []types.PublicSession) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No published sessions yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tTAGS\tAUTHOR\tCREATED\tCONTENT")
	for _, s := range list {
		author := s.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Title, tagList(s.Tags), author, formatTime(s.CreatedAt), s.ContentURL)
	}
	return tw.Flush()
}

// RenderMine writes the caller's sessions, drafts included, as a table.
func RenderMine(w io.Writer, list []types.SessionView) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "You have no sessions. Create one with `draft`.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tTAGS\tUPDATED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Status, tagList(s.Tags), formatTime(s.UpdatedAt))
	}
	return tw.Flush()
}

// RenderSession writes one session's details.
func RenderSession(w io.Writer, s types.SessionView) error {
	_, err := fmt.Fprintf(w, "ID:       %s\nTitle:    %s\nStatus:   %s\nTags:     %s\nContent:  %s\nCreated:  %s\nUpdated:  %s\n",
		s.ID, s.Title, s.Status, tagList(s.Tags), s.ContentURL, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	return err
}
