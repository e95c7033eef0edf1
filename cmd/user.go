package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

var listType string

// userCmd groups the user commands
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Look up public user profiles and lists",
}

var userGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserGet,
}

var userWaifusCmd = &cobra.Command{
	Use:   "waifus <user-id>",
	Short: "List the waifus a user liked, trashed or created",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserWaifus,
}

var userListsCmd = &cobra.Command{
	Use:   "lists <user-id>",
	Short: "List the custom lists of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserLists,
}

var userListCmd = &cobra.Command{
	Use:   "list <user-id> <list-id>",
	Short: "Show the waifus of one custom list",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserList,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userGetCmd, userWaifusCmd, userListsCmd, userListCmd)

	userWaifusCmd.Flags().StringVarP(&listType, "list", "l", string(mywaifulist.ListLikes), "list type: likes, trash or created")
	userWaifusCmd.Flags().IntVar(&page, "page", 1, "page number")
}

func runUserGet(cmd *cobra.Command, args []string) error {
	id, err := parseID("user id", args[0])
	if err != nil {
		return err
	}

	user, err := client.GetUserProfile(cmd.Context(), id).Get()
	if err != nil {
		return err
	}
	return printOne(cmd, user, userView)
}

func runUserWaifus(cmd *cobra.Command, args []string) error {
	id, err := parseID("user id", args[0])
	if err != nil {
		return err
	}
	lt, err := mywaifulist.ParseWaifuListType(listType)
	if err != nil {
		return err
	}
	if err := validatePage(); err != nil {
		return err
	}

	waifus, err := client.GetUserWaifus(cmd.Context(), id, lt, page).Get()
	if err != nil {
		return err
	}
	return printPage(cmd, waifus, filteredWaifuView)
}

func runUserLists(cmd *cobra.Command, args []string) error {
	id, err := parseID("user id", args[0])
	if err != nil {
		return err
	}

	lists, err := client.GetUserLists(cmd.Context(), id).Get()
	if err != nil {
		return err
	}
	return printList(cmd, lists, userListView)
}

func runUserList(cmd *cobra.Command, args []string) error {
	userID, err := parseID("user id", args[0])
	if err != nil {
		return err
	}
	listID, err := parseID("list id", args[1])
	if err != nil {
		return err
	}

	list, err := client.GetUserList(cmd.Context(), userID, listID).Get()
	if err != nil {
		return err
	}

	if jsonOutput() && filterExpr == "" && preset == "" {
		return writeJSON(cmd.OutOrStdout(), list)
	}

	if !jsonOutput() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d waifus)\n", list.Name, len(list.Waifus))
	}

	// The list's waifus are the filterable part
	return printList(cmd, list.Waifus, filteredWaifuView)
}
