package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/relay/internal/client"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/ui"
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Short:   "Manage channels",
	GroupID: "channels",
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List channels visible to you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, err := relayClient.ListChannels(context.Background())
		if err != nil {
			return fmt.Errorf("listing channels: %w", err)
		}
		if jsonOutput {
			printJSON(channels)
			return nil
		}
		printChannelListTable(channels)
		return nil
	},
}

var channelsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		private, _ := cmd.Flags().GetBool("private")
		memberIDs, _ := cmd.Flags().GetStringArray("member")

		req := &client.CreateChannelRequest{
			Name:        args[0],
			Description: description,
		}
		if private {
			req.Visibility = string(model.VisibilityPrivate)
			for _, id := range memberIDs {
				req.Members = append(req.Members, model.Identity{ID: id})
			}
		}

		ch, err := relayClient.CreateChannel(context.Background(), req)
		if err != nil {
			return fmt.Errorf("creating channel: %w", err)
		}
		if jsonOutput {
			printJSON(ch)
			return nil
		}
		fmt.Printf("created %s %s\n", ui.RenderChannel(ch.Name), ui.RenderMuted(ch.ID))
		return nil
	},
}

var channelsShowCmd = &cobra.Command{
	Use:   "show <channel-id>",
	Short: "Show a channel and its newest messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, _ := cmd.Flags().GetString("before")

		page, err := relayClient.GetChannel(context.Background(), args[0], before)
		if err != nil {
			return fmt.Errorf("fetching channel: %w", err)
		}
		if jsonOutput {
			printJSON(page)
			return nil
		}
		printChannelTable(page.Channel)
		fmt.Println()
		printMessagesTable(page.Messages)
		return nil
	},
}

var channelsRenameCmd = &cobra.Command{
	Use:   "rename <channel-id> <name>",
	Short: "Rename a channel you created",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateChannelRequest{Name: args[1]}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			req.Description = &description
		}

		ch, err := relayClient.UpdateChannel(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating channel: %w", err)
		}
		if jsonOutput {
			printJSON(ch)
			return nil
		}
		fmt.Printf("renamed to %s\n", ui.RenderChannel(ch.Name))
		return nil
	},
}

var channelsDeleteCmd = &cobra.Command{
	Use:   "delete <channel-id>",
	Short: "Delete a channel you created, including its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := relayClient.DeleteChannel(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting channel: %w", err)
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var channelsInviteCmd = &cobra.Command{
	Use:   "invite <channel-id> <user-id>",
	Short: "Add a member to a channel you created",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		member := model.Identity{ID: args[1]}
		if err := relayClient.AddMember(context.Background(), args[0], member); err != nil {
			return fmt.Errorf("adding member: %w", err)
		}
		fmt.Printf("added %s to %s\n", ui.RenderAuthor(args[1]), args[0])
		return nil
	},
}

var channelsKickCmd = &cobra.Command{
	Use:   "kick <channel-id> <user-id>",
	Short: "Remove a member from a channel you created",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := relayClient.RemoveMember(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("removing member: %w", err)
		}
		fmt.Printf("removed %s from %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	channelsCreateCmd.Flags().String("description", "", "channel description")
	channelsCreateCmd.Flags().Bool("private", false, "restrict the channel to invited members")
	channelsCreateCmd.Flags().StringArray("member", nil, "initial member id (repeatable, private channels only)")

	channelsShowCmd.Flags().String("before", "", "page messages before this message id")

	channelsRenameCmd.Flags().String("description", "", "new channel description")

	channelsCmd.AddCommand(channelsListCmd)
	channelsCmd.AddCommand(channelsCreateCmd)
	channelsCmd.AddCommand(channelsShowCmd)
	channelsCmd.AddCommand(channelsRenameCmd)
	channelsCmd.AddCommand(channelsDeleteCmd)
	channelsCmd.AddCommand(channelsInviteCmd)
	channelsCmd.AddCommand(channelsKickCmd)
}
