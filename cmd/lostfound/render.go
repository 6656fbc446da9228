package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/lostfound-service/internal/client"
	"github.com/spec-kit/lostfound-service/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[domain.ItemStatus]lipgloss.Style{
		domain.ItemStatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		domain.ItemStatusApproved: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		domain.ItemStatusClaimed:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		domain.ItemStatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// printer shows view notifications on the terminal.
type printer struct{}

func (printer) Notify(n client.Notification) {
	if n.Level == client.LevelError {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+n.Message))
		return
	}
	printSuccess(n.Message)
}

func printSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

func cell(width int, text string) string {
	if lipgloss.Width(text) > width-1 {
		runes := []rune(text)
		if len(runes) > width-2 {
			text = string(runes[:width-2]) + "…"
		}
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func printItems(items []client.Item) {
	if len(items) == 0 {
		fmt.Println(dimStyle.Render("no items"))
		return
	}
	fmt.Println(headerStyle.Render(
		cell(38, "ID") + cell(10, "STATUS") + cell(8, "TYPE") + cell(28, "TITLE") + cell(20, "LOCATION") + "REPORTED BY"))
	for _, item := range items {
		status := cell(10, string(item.Status))
		if style, ok := statusStyles[item.Status]; ok {
			status = style.Render(status)
		}
		fmt.Println(cell(38, item.ID) + status + cell(8, string(item.Category)) +
			cell(28, item.Title) + cell(20, item.Location) + item.ReportedBy.Name)
	}
}

func printUser(user client.User) {
	fmt.Printf("%s %s\n", headerStyle.Render("Name:"), user.Name)
	fmt.Printf("%s %s\n", headerStyle.Render("Email:"), user.Email)
	fmt.Printf("%s %s\n", headerStyle.Render("Role:"), user.Role)
	fmt.Printf("%s %s\n", headerStyle.Render("ID:"), dimStyle.Render(user.ID))
}

func printTransitions(transitions []client.Transition) {
	if len(transitions) == 0 {
		fmt.Println(dimStyle.Render("no history"))
		return
	}
	for _, t := range transitions {
		from := "-"
		if t.From != nil {
			from = string(*t.From)
		}
		line := fmt.Sprintf("%s  %s → %s  by %s",
			t.CreatedAt.Local().Format("2006-01-02 15:04:05"), from, t.To, t.ActorID)
		if t.Reason != "" {
			line += dimStyle.Render("  (" + t.Reason + ")")
		}
		fmt.Println(line)
	}
}
