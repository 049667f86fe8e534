package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/contacts"
)

// contactsCmd lists the configured directory
var contactsCmd = &cobra.Command{
	Use:   "contacts [id]...",
	Short: "List the contact directory",
	Long: `Lists every configured contact with its presence and colour token.
With ids, lists only those contacts; an unknown id is an error.`,
	RunE:  runContacts,
}

func runContacts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Directory()
	active, _ := dir.Active()

	list := dir.List()
	if len(args) > 0 {
		list = list[:0]
		for _, id := range args {
			c, ok := dir.Get(id)
			if !ok {
				return fmt.Errorf("unknown contact %q", id)
			}
			list = append(list, c)
		}
	}

	tbl := ui.NewTable("Contacts", "", "id", "name", "presence", "colour")
	for _, c := range list {
		marker := ""
		if c.ID == active.ID {
			marker = "*"
		}
		tbl.AddRow(marker, c.ID, c.DisplayName, c.Presence.Label(), string(contacts.PresenceColor(c.Presence)))
	}
	fmt.Fprint(cmd.OutOrStdout(), tbl.Render(ui.NewStyles(ui.ThemeByName("light"))))
	logger.Debug(fmt.Sprintf("listed %d of %d contacts", len(list), dir.Len()))
	return nil
}
