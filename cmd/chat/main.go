// Aibot - interactive terminal chat client
//
// Talks to a running Aibot server and keeps chat sessions in a local
// SQLite file, so conversations survive restarts of the client.
//
// Interactive commands:
//
//	/help            show available commands
//	/new             start a new chat session
//	/sessions        list sessions, most recent first
//	/switch N        switch to session N from the list
//	/delete N        delete session N from the list
//	/model NAME      select model (x1, x2, x3)
//	/history         show the active session's messages
//	/log             show the server's message log
//	/quit            exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GOHANX1234/Aibot/internal/chat"
	"github.com/GOHANX1234/Aibot/internal/codeblock"
	"github.com/GOHANX1234/Aibot/internal/domain"
	"github.com/GOHANX1234/Aibot/internal/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	langStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	codeStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Aibot server base URL")
	dbPath := flag.String("db", defaultDBPath(), "path to the local sessions database")
	model := flag.String("model", domain.ModelX1, "default model for new sessions (x1, x2, x3)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if !domain.ValidModel(*model) {
		fmt.Fprintf(os.Stderr, "unknown model %q, valid models: %s\n", *model, strings.Join(domain.Models, ", "))
		os.Exit(1)
	}

	persister, err := session.NewSQLite(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open sessions database: %v\n", err)
		os.Exit(1)
	}
	defer persister.Close()

	client := chat.NewClient(*serverURL, nil)
	orch := chat.New(session.New(persister), client, *model)

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyFile := filepath.Join(filepath.Dir(*dbPath), "chat_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(infoStyle.Render(fmt.Sprintf("Connected to %s | model %s | /help for commands", *serverURL, orch.Model())))
	replay(orch.Messages())

	for {
		input, err := line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// Ctrl+D or read failure ends the session.
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runCommand(orch, client, input); quit {
				return
			}
			continue
		}

		if err := orch.SendMessage(context.Background(), input); err != nil {
			fmt.Println(errorStyle.Render("Failed to send message. Please try again."))
			slog.Warn("send failed", "error", err)
			continue
		}

		messages := orch.Messages()
		printMessage(messages[len(messages)-1])
	}
}

// runCommand handles a slash command, reporting whether to exit.
func runCommand(orch *chat.Orchestrator, client *chat.Client, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/q":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render("/new /sessions /switch N /delete N /model NAME /history /log /quit"))

	case "/new":
		created := orch.CreateNewChat()
		fmt.Println(infoStyle.Render("Started new chat " + created.ID))

	case "/sessions":
		for i, s := range orch.Sessions() {
			marker := "  "
			if s.ID == orch.ActiveSessionID() {
				marker = "* "
			}
			fmt.Printf("%s%d. %s (%s, %d messages)\n", marker, i+1, s.Title, s.Model, len(s.Messages))
		}

	case "/switch":
		if s, ok := sessionAt(orch, arg); ok {
			orch.SwitchSession(s.ID)
			fmt.Println(infoStyle.Render("Switched to " + s.Title))
			replay(orch.Messages())
		}

	case "/delete":
		if s, ok := sessionAt(orch, arg); ok {
			orch.DeleteSession(s.ID)
			fmt.Println(infoStyle.Render("Deleted " + s.Title))
		}

	case "/model":
		if !domain.ValidModel(arg) {
			fmt.Println(errorStyle.Render("valid models: " + strings.Join(domain.Models, ", ")))
			break
		}
		orch.ChangeModel(arg)
		fmt.Println(infoStyle.Render("Model set to " + arg))

	case "/history":
		replay(orch.Messages())

	case "/log":
		stored, err := client.Messages(context.Background())
		if err != nil {
			fmt.Println(errorStyle.Render("Failed to fetch server log."))
			slog.Warn("fetch log failed", "error", err)
			break
		}
		for _, m := range stored {
			who := "bot"
			if m.IsUserMessage {
				who = "you"
			}
			fmt.Printf("%4d %s [%s] %s\n", m.ID, who, m.Model, m.Content)
		}

	default:
		fmt.Println(errorStyle.Render("Unknown command, /help for commands"))
	}

	return false
}

// sessionAt resolves a 1-based index from /sessions output.
func sessionAt(orch *chat.Orchestrator, arg string) (domain.ChatSession, bool) {
	sessions := orch.Sessions()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(sessions) {
		fmt.Println(errorStyle.Render("Expected a session number from /sessions"))
		return domain.ChatSession{}, false
	}
	return sessions[n-1], true
}

func replay(messages []domain.ChatMessage) {
	for _, msg := range messages {
		printMessage(msg)
	}
}

// printMessage renders one message, splitting out code segments for
// distinct styling.
func printMessage(msg domain.ChatMessage) {
	if msg.IsUser {
		fmt.Println(promptStyle.Render("you> ") + msg.Content)
		return
	}

	fmt.Print(botStyle.Render("bot> "))
	for _, seg := range codeblock.Parse(msg.Content) {
		if seg.Type == codeblock.SegmentCode {
			fmt.Println()
			fmt.Println(langStyle.Render(seg.Language))
			fmt.Println(codeStyle.Render(seg.Content))
			continue
		}
		fmt.Print(seg.Content)
	}
	fmt.Println()
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data/sessions.db"
	}
	return filepath.Join(home, ".aibot", "sessions.db")
}
