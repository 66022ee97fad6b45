package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:     "messages <channel-id>",
	Short:   "List a channel's newest messages",
	GroupID: "messages",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, _ := cmd.Flags().GetString("before")

		msgs, err := relayClient.ListMessages(context.Background(), args[0], before)
		if err != nil {
			return fmt.Errorf("listing messages: %w", err)
		}
		if jsonOutput {
			printJSON(msgs)
			return nil
		}
		printMessagesTable(msgs)
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:     "post <channel-id> <body>...",
	Short:   "Post a message to a channel",
	GroupID: "messages",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.Join(args[1:], " ")

		m, err := relayClient.PostMessage(context.Background(), args[0], body)
		if err != nil {
			return fmt.Errorf("posting message: %w", err)
		}
		if jsonOutput {
			printJSON(m)
			return nil
		}
		fmt.Println(formatMessageLine(m))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <message-id> <body>...",
	Short:   "Edit a message you posted",
	GroupID: "messages",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.Join(args[1:], " ")

		m, err := relayClient.EditMessage(context.Background(), args[0], body)
		if err != nil {
			return fmt.Errorf("editing message: %w", err)
		}
		if jsonOutput {
			printJSON(m)
			return nil
		}
		fmt.Println(formatMessageLine(m))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <message-id>",
	Short:   "Delete a message you posted",
	GroupID: "messages",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := relayClient.DeleteMessage(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting message: %w", err)
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	messagesCmd.Flags().String("before", "", "page messages before this message id")
}
