package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"clementus360/wellness-sessions/editor"

	"github.com/spf13/cobra"
)

const editHelp = `Commands:
  title <text>   set the title
  tags <a, b>    set comma-separated tags
  url <link>     set the content URL
  save           save a draft now
  publish        publish the saved session
  status         show the form and save state
  quit           stop editing
Drafts are saved automatically after %s without changes.
`

// lineNotifier prints editor feedback; auto-saves report from the timer goroutine.
type lineNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *lineNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "ok: %s\n", msg)
}

func (n *lineNotifier) Failure(msg string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "error: %s: %v\n", msg, err)
}

func (a *app) editCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a session interactively with auto-save",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delay <= 0 {
				delay = a.cfg.AutosaveDelay
			}
			notifier := &lineNotifier{out: cmd.OutOrStdout()}
			ed := editor.New(a.api, editor.WithDelay(delay), editor.WithNotifier(notifier))
			defer ed.Close()

			if len(args) == 1 {
				if err := ed.Load(cmd.Context(), args[0]); err != nil {
					return explain("failed to load session", err)
				}
			}

			notifier.mu.Lock()
			fmt.Fprintf(notifier.out, editHelp, delay)
			notifier.mu.Unlock()

			return runEditor(cmd, ed, notifier)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 0, "inactivity delay before an automatic save (default AUTOSAVE_DELAY)")
	return cmd
}

func runEditor(cmd *cobra.Command, ed *editor.Editor, notifier *lineNotifier) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(verb) {
		case "title":
			ed.Edit(editor.Title, rest)
		case "tags":
			ed.Edit(editor.Tags, rest)
		case "url":
			ed.Edit(editor.ContentURL, rest)
		case "save":
			if _, err := ed.SaveNow(ctx); errors.Is(err, editor.ErrIncomplete) {
				notifier.Failure("Cannot save", err)
			}
		case "publish":
			_, _ = ed.Publish(ctx)
		case "status":
			printStatus(notifier, ed)
		case "quit", "exit":
			return closeEditor(ed, notifier)
		default:
			notifier.Failure("Unknown command", fmt.Errorf("%q", verb))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return closeEditor(ed, notifier)
}

func closeEditor(ed *editor.Editor, n *lineNotifier) error {
	ed.Close()
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.out, "Editor closed.")
	return err
}

func printStatus(n *lineNotifier, ed *editor.Editor) {
	form := ed.Form()
	id := ed.SessionID()
	if id == "" {
		id = "(not saved)"
	}
	saved := "never"
	if t := ed.LastSaved(); !t.IsZero() {
		saved = t.Local().Format("3:04:05PM")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "id: %s\nstate: %s\nlast saved: %s\ntitle: %s\ntags: %s\nurl: %s\ncan publish: %t\n",
		id, ed.State(), saved, form.Title, form.Tags, form.ContentURL, ed.CanPublish())
}
