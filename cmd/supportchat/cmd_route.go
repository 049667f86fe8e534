package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/route"
)

// routeCmd prints how paths resolve
var routeCmd = &cobra.Command{
	Use:   "route <path>...",
	Short: "Show how navigation paths resolve",
	Long: `Resolves each path the way the interactive client does and prints the
result. Unknown paths, including the root, redirect to the sign-in page.

Example:
  supportchat route / /chat /auth/register /settings`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoute,
}

func runRoute(cmd *cobra.Command, args []string) error {
	tbl := ui.NewTable("Routes", "requested", "path", "area", "page", "redirected")
	for _, p := range args {
		res := route.Resolve(p)
		logger.Debug("resolved", zap.String("requested", p), zap.String("path", res.Path))

		redirected := ""
		if res.Redirected {
			redirected = "yes"
		}
		tbl.AddRow(fmt.Sprintf("%q", p), res.Path, res.Area.String(), res.AuthPage.String(), redirected)
	}
	fmt.Fprint(cmd.OutOrStdout(), tbl.Render(ui.NewStyles(ui.ThemeByName("light"))))
	return nil
}
