// cmd/gemfinder/wishlist.go
package main

import (
	"context"
	"fmt"

	"gemfinder/internal/models"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var session models.Session
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Remember who is using the client",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if err := a.state.Login(ctx, session); err != nil {
				return err
			}
			a.print(fmt.Sprintf("Logged in as %s", session.UserID))
			return nil
		}),
	}
	cmd.Flags().StringVar(&session.UserID, "user-id", "", "user id")
	cmd.Flags().StringVar(&session.Name, "name", "", "display name")
	cmd.Flags().StringVar(&session.Role, "role", "user", "role")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and wishlist",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if err := a.state.Logout(ctx); err != nil {
				return err
			}
			a.print("Logged out")
			return nil
		}),
	}
}

func newWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage saved gems",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show saved gems",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ context.Context, a *app, _ *cobra.Command, _ []string) error {
			a.print(a.renderer.Wishlist(a.state.Wishlist()))
			return nil
		}),
	})
	cmd.AddCommand(wishlistChangeCmd("add", true))
	cmd.AddCommand(wishlistChangeCmd("remove", false))
	return cmd
}

func wishlistChangeCmd(use string, want bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <gem-id>",
		Short: use + " a gem",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			gemID := args[0]
			if a.state.InWishlist(gemID) == want {
				a.print(fmt.Sprintf("%s: nothing to do", gemID))
				return nil
			}
			in, err := a.state.ToggleWishlist(ctx, gemID)
			if err != nil {
				return err
			}
			if in {
				a.print(fmt.Sprintf("♥ %s saved", gemID))
			} else {
				a.print(fmt.Sprintf("%s removed", gemID))
			}
			return nil
		}),
	}
}
