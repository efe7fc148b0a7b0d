package cli

import (
	"errors"
	"fmt"

	"clementus360/wellness-sessions/client"
	"clementus360/wellness-sessions/supabase"
	"clementus360/wellness-sessions/types"

	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.api.ListPublic(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch sessions: %w", err)
			}
			return client.RenderPublic(cmd.OutOrStdout(), list)
		},
	}
}

func (a *app) mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your sessions, drafts included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.api.ListMine(cmd.Context())
			if err != nil {
				return explain("failed to fetch your sessions", err)
			}
			return client.RenderMine(cmd.OutOrStdout(), list)
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one of your sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.api.GetMine(cmd.Context(), args[0])
			if err != nil {
				return explain("failed to fetch session", err)
			}
			return client.RenderSession(cmd.OutOrStdout(), session)
		},
	}
}

func (a *app) draftCmd() *cobra.Command {
	var req types.SaveDraftRequest

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Create a draft, or update an existing session with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.api.SaveDraft(cmd.Context(), req)
			if err != nil {
				return explain("failed to save draft", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Draft saved: %s\n", session.ID)
			return client.RenderSession(cmd.OutOrStdout(), session)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "session title")
	cmd.Flags().StringVar(&req.Tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&req.ContentURL, "url", "", "URL of the session content")
	cmd.Flags().StringVar(&req.SessionID, "id", "", "id of the session to update")
	return cmd
}

func (a *app) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish one of your sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.api.Publish(cmd.Context(), args[0])
			if err != nil {
				return explain("failed to publish session", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session published: %s\n", session.ID)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Delete(cmd.Context(), args[0]); err != nil {
				return explain("failed to delete session", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session deleted: %s\n", args[0])
			return nil
		},
	}
}

func (a *app) devTokenCmd() *cobra.Command {
	var userID, email string

	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Issue a token signed with SUPABASE_JWT_SECRET for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return errors.New("SUPABASE_JWT_SECRET must be set to issue a token")
			}
			token, err := supabase.GenerateTestJWT(a.cfg.JWTSecret, userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func explain(action string, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%s: sign in again (token missing or expired): %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
