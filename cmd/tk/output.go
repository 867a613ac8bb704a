package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/tacks/internal/model"
	"github.com/alfredjeanlab/tacks/internal/store"
	"github.com/alfredjeanlab/tacks/internal/ui"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncateTitle(title string) string {
	if len(title) > 50 {
		return title[:47] + "..."
	}
	return title
}

func printCardTable(card *model.Card) {
	fmt.Printf("ID:           %s\n", card.ID)
	fmt.Printf("Title:        %s\n", card.Title)
	fmt.Printf("Column:       %s\n", card.ColumnID)
	fmt.Printf("Position:     %d\n", card.Position)
	if card.Priority != "" {
		fmt.Printf("Priority:     %s\n", card.Priority)
	}
	if len(card.Tags) > 0 {
		fmt.Printf("Tags:         %s\n", strings.Join(card.Tags, ", "))
	}
	if len(card.Dependencies) > 0 {
		fmt.Printf("Depends On:   %s\n", strings.Join(card.Dependencies, ", "))
	}
	if card.DueDate != nil {
		fmt.Printf("Due:          %s\n", card.DueDate.Format("2006-01-02"))
	}
	fmt.Printf("Created At:   %s\n", card.CreatedAt.Format(timeLayout))
	fmt.Printf("Updated At:   %s\n", card.UpdatedAt.Format(timeLayout))
	if card.CompletedAt != nil {
		fmt.Printf("Completed At: %s\n", card.CompletedAt.Format(timeLayout))
	}
	if card.BlockedAt != nil {
		fmt.Printf("Blocked At:   %s\n", card.BlockedAt.Format(timeLayout))
	}
	if card.Content != "" {
		fmt.Printf("Content:      %s\n", card.Content)
	}
	for _, s := range card.Subtasks {
		if model.SubtaskDone(s) {
			fmt.Printf("  [x] %s\n", model.ReopenSubtask(s))
		} else {
			fmt.Printf("  [ ] %s\n", s)
		}
	}
}

func printCardListTable(cards []*model.Card, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLUMN\tPOS\tPRIORITY\tTITLE\tTAGS")
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			c.ID,
			c.ColumnID,
			c.Position,
			c.Priority,
			truncateTitle(c.Title),
			strings.Join(c.Tags, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d cards (%d total)\n", len(cards), total)
}

// printBoardTable renders the kanban view: one section per column, cards
// in position order with their status markers.
func printBoardTable(b *model.Board) {
	fmt.Printf("%s  (%s)\n", ui.RenderAccent(b.ProjectName), b.ID)
	for _, col := range b.Columns {
		cards := b.CardsInColumn(col.ID)
		fmt.Printf("\n%s\n", ui.RenderAccent(fmt.Sprintf("%s (%d)", col.Name, len(cards))))
		if len(cards) == 0 {
			fmt.Printf("  %s\n", ui.RenderMuted("(empty)"))
			continue
		}
		for _, c := range cards {
			line := fmt.Sprintf("  %-10s %s", c.ID, truncateTitle(c.Title))
			if c.Priority != "" {
				line += " " + ui.RenderPriority(string(c.Priority), "["+string(c.Priority)+"]")
			}
			switch {
			case c.CompletedAt != nil:
				line += " " + ui.RenderDone("✓")
			case c.BlockedAt != nil:
				line += " " + ui.RenderBlocked("⊘")
			}
			fmt.Println(line)
		}
	}
	if len(b.NextSteps) > 0 {
		fmt.Printf("\n%s\n", ui.RenderAccent("Next steps:"))
		for _, s := range b.NextSteps {
			fmt.Printf("  - %s\n", s)
		}
	}
}

func printBoardListTable(boards []store.BoardSummary, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tCOLUMNS\tCARDS\tLAST UPDATED")
	for _, b := range boards {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			b.ID,
			b.ProjectName,
			b.Columns,
			b.Cards,
			b.LastUpdated.Format(timeLayout),
		)
	}
	w.Flush()
	fmt.Printf("\n%d boards (%d total)\n", len(boards), total)
}
