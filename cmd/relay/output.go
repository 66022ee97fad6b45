package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printChannelTable(ch *model.Channel) {
	fmt.Printf("ID:          %s\n", ch.ID)
	fmt.Printf("Name:        %s\n", ui.RenderChannel(ch.Name))
	fmt.Printf("Visibility:  %s\n", ch.Visibility)
	if ch.Description != "" {
		fmt.Printf("Description: %s\n", ch.Description)
	}
	if ch.IsPrivate() {
		fmt.Printf("Members:     %s\n", strings.Join(ch.Members, ", "))
	}
	fmt.Printf("Creator:     %s\n", ui.RenderAuthor(ch.Creator.ID))
	if !ch.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", ch.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if ch.EditedAt != nil {
		fmt.Printf("Edited At:   %s\n", ch.EditedAt.Format("2006-01-02 15:04:05"))
	}
}

func printChannelListTable(channels []*model.Channel) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVISIBILITY\tMEMBERS\tCREATOR")
	for _, ch := range channels {
		members := ""
		if ch.IsPrivate() {
			members = fmt.Sprintf("%d", len(ch.Members))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ch.ID,
			ch.Name,
			ch.Visibility,
			members,
			ch.Creator.ID,
		)
	}
	w.Flush()
	fmt.Printf("\n%d channels\n", len(channels))
}

// formatMessageLine renders one message as a single terminal line.
func formatMessageLine(m *model.Message) string {
	ts := m.CreatedAt.Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%s %s: %s",
		ui.RenderMuted("["+ts+"]"),
		ui.RenderAuthor(m.Creator.ID),
		m.Body,
	)
	if m.EditedAt != nil {
		line += " " + ui.RenderMuted("(edited)")
	}
	return line
}

// printMessagesTable prints messages oldest-first, the reading order, even
// though pages arrive newest-first.
func printMessagesTable(msgs []*model.Message) {
	for i := len(msgs) - 1; i >= 0; i-- {
		fmt.Println(formatMessageLine(msgs[i]))
	}
	if len(msgs) == 0 {
		fmt.Println(ui.RenderMuted("no messages"))
		return
	}
	fmt.Printf("\n%d messages (oldest shown: %s)\n", len(msgs), ui.RenderMuted(msgs[len(msgs)-1].ID))
}
