// ABOUTME: Interactive terminal client for the Solace assistant backend.
// ABOUTME: Provides readline-style chat with auth, session, and export commands.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/chat"
	"github.com/2389/solace-client/internal/config"
	"github.com/2389/solace-client/internal/creds"
	"github.com/2389/solace-client/internal/export"
	"github.com/2389/solace-client/internal/guard"
	"github.com/2389/solace-client/internal/notify"
	"github.com/2389/solace-client/internal/session"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Config file path")
	server := flag.String("server", "", "Backend base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := creds.NewSQLiteStore(cfg.Credentials.Path)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	defer store.Close()

	notifier := notify.NewTerminal(os.Stdout)

	client := api.New(cfg.Server.BaseURL, store, logger,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}))
	sessions := session.NewManager(client, store, notifier, logger)
	// Route 401 invalidation back into the session layer so the prompt
	// drops to the logged-out state.
	client.OnAuthExpired(sessions.HandleAuthExpired)

	conversations := chat.NewManager(client, notifier, logger)
	conversations.Bind(sessions)
	routes := guard.New(sessions)

	fmt.Printf("solace-chat connected to %s\n", cfg.Server.BaseURL)
	fmt.Println("Checking stored session...")
	if err := sessions.Bootstrap(ctx); err != nil {
		logger.Warn("bootstrap failed", "error", err)
	}
	if user := sessions.User(); user != nil {
		fmt.Printf("Welcome back, %s.\n", user.FullName)
	} else {
		fmt.Println("Not logged in. Use /login or /signup to get started.")
	}
	fmt.Println("Type a message and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	app := &app{
		client:        client,
		sessions:      sessions,
		conversations: conversations,
		guard:         routes,
		notifier:      notifier,
		reader:        bufio.NewReader(os.Stdin),
	}
	return app.loop(ctx)
}

// app holds the REPL's collaborators.
type app struct {
	client        *api.Client
	sessions      *session.Manager
	conversations *chat.Manager
	guard         *guard.Guard
	notifier      notify.Notifier
	reader        *bufio.Reader
}

func (a *app) loop(ctx context.Context) error {
	for {
		a.printPrompt()

		input, err := a.readLine(ctx)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if strings.HasPrefix(input, "/") {
			a.dispatch(ctx, input)
			fmt.Println()
			continue
		}

		a.sendChat(ctx, input)
		fmt.Println()
	}
}

// readLine reads one line while staying responsive to ctx cancellation.
func (a *app) readLine(ctx context.Context) (string, error) {
	inputCh := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				inputCh <- line
				return
			}
			errCh <- err
			return
		}
		inputCh <- line
	}()

	select {
	case <-ctx.Done():
		return "", io.EOF
	case err := <-errCh:
		return "", err
	case line := <-inputCh:
		return line, nil
	}
}

func (a *app) printPrompt() {
	if current := a.conversations.Current(); current != nil {
		title := current.Title
		if title == "" {
			title = current.ID
		}
		fmt.Printf("[%s]> ", truncate(title, 24))
		return
	}
	fmt.Print("> ")
}

func (a *app) dispatch(ctx context.Context, input string) {
	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/help":
		printHelp()
	case "/login":
		a.cmdLogin(ctx)
	case "/signup":
		a.cmdSignup(ctx)
	case "/verify":
		a.cmdVerify(ctx, args)
	case "/forgot":
		a.cmdForgot(ctx, args)
	case "/reset":
		a.cmdReset(ctx, args)
	case "/logout":
		a.sessions.Logout(ctx)
	case "/whoami":
		a.cmdWhoami()
	case "/sessions":
		a.cmdSessions(ctx)
	case "/select":
		a.cmdSelect(ctx, args)
	case "/new":
		if !a.allowed(guard.RequireAuth) {
			return
		}
		a.conversations.CreateNewSession()
		fmt.Println("Started a fresh conversation.")
	case "/delete":
		a.cmdDelete(ctx, args)
	case "/export":
		a.cmdExport(args)
	default:
		fmt.Printf("Unknown command: %s (try /help)\n", cmd)
	}
}

// allowed runs the route guard for a command and explains a denial.
// The Pending case matters: we never treat an unresolved bootstrap as
// logged out.
func (a *app) allowed(rule guard.Rule) bool {
	verdict := a.guard.Check(rule)
	switch verdict.Decision {
	case guard.Allow:
		return true
	case guard.Pending:
		fmt.Println("Still checking your stored session, try again in a moment.")
		return false
	default:
		if verdict.Redirect == guard.RedirectLogin {
			fmt.Println("You need to log in first (/login).")
		} else {
			fmt.Println("Not available on this account.")
		}
		return false
	}
}

func (a *app) sendChat(ctx context.Context, text string) {
	if !a.allowed(guard.RequireAuth) {
		return
	}

	sessionID := ""
	if current := a.conversations.Current(); current != nil {
		sessionID = current.ID
	}

	if err := a.conversations.SendMessage(ctx, text, sessionID); err != nil {
		return // already surfaced as a notification
	}

	current := a.conversations.Current()
	if current == nil || len(current.Messages) == 0 {
		return
	}
	last := current.Messages[len(current.Messages)-1]
	if last.Role == api.RoleAssistant {
		printAssistant(last.Content)
	}
}

func (a *app) cmdLogin(ctx context.Context) {
	if !a.allowed(guard.RequireAnon) {
		return
	}
	email, err := promptLine(a.reader, "Email")
	if err != nil {
		return
	}
	if email == "" {
		fmt.Println("Email is required.")
		return
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		fmt.Printf("[error] %v\n", err)
		return
	}
	if err := a.sessions.Login(ctx, email, password); err != nil {
		return
	}
	if user := a.sessions.User(); user != nil {
		fmt.Printf("Welcome, %s.\n", user.FullName)
	}
}

func (a *app) cmdSignup(ctx context.Context) {
	if !a.allowed(guard.RequireAnon) {
		return
	}
	fullName, err := promptLine(a.reader, "Full name")
	if err != nil {
		return
	}
	email, err := promptLine(a.reader, "Email")
	if err != nil {
		return
	}
	if email == "" || fullName == "" {
		fmt.Println("Full name and email are required.")
		return
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		fmt.Printf("[error] %v\n", err)
		return
	}
	if len(password) < 8 {
		fmt.Println("Password must be at least 8 characters.")
		return
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		fmt.Printf("[error] %v\n", err)
		return
	}
	if password != confirm {
		fmt.Println("Passwords do not match.")
		return
	}
	if err := a.sessions.Signup(ctx, email, password, fullName); err != nil {
		return
	}
	fmt.Println("Check your inbox for a verification link, then /login.")
}

func (a *app) cmdVerify(ctx context.Context, token string) {
	if token == "" {
		fmt.Println("Usage: /verify <token>")
		return
	}
	resp, err := a.client.VerifyEmail(ctx, token)
	if err != nil {
		a.notifier.Error(api.ErrorDetail(err, "Email verification failed"))
		return
	}
	a.notifier.Success(resp.Message)
}

func (a *app) cmdForgot(ctx context.Context, email string) {
	if email == "" {
		fmt.Println("Usage: /forgot <email>")
		return
	}
	resp, err := a.client.ForgotPassword(ctx, email)
	if err != nil {
		a.notifier.Error(api.ErrorDetail(err, "Password reset request failed"))
		return
	}
	a.notifier.Success(resp.Message)
}

func (a *app) cmdReset(ctx context.Context, token string) {
	if token == "" {
		fmt.Println("Usage: /reset <token>")
		return
	}
	password, err := promptPassword("New password: ")
	if err != nil {
		fmt.Printf("[error] %v\n", err)
		return
	}
	if len(password) < 8 {
		fmt.Println("Password must be at least 8 characters.")
		return
	}
	resp, err := a.client.ResetPassword(ctx, token, password)
	if err != nil {
		a.notifier.Error(api.ErrorDetail(err, "Password reset failed"))
		return
	}
	a.notifier.Success(resp.Message)
}

func (a *app) cmdWhoami() {
	if !a.allowed(guard.RequireAuth) {
		return
	}
	user := a.sessions.User()
	cyan := color.New(color.FgCyan)
	cyan.Printf("%s", user.FullName)
	fmt.Printf(" <%s>\n", user.Email)
	fmt.Printf("  verified: %v  admin: %v\n", user.IsVerified, user.IsAdmin)
}

func (a *app) cmdSessions(ctx context.Context) {
	if !a.allowed(guard.RequireAuth) {
		return
	}
	if err := a.conversations.LoadSessions(ctx); err != nil {
		return
	}
	sessions := a.conversations.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No chat sessions yet. Just type a message to start one.")
		return
	}
	current := a.conversations.Current()
	for i, s := range sessions {
		marker := "  "
		if current != nil && current.ID == s.ID {
			marker = "* "
		}
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s%2d. %s  (%s, updated %s)\n",
			marker, i+1, truncate(title, 48), s.ID, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func (a *app) cmdSelect(ctx context.Context, id string) {
	if !a.allowed(guard.RequireAuth) {
		return
	}
	if id == "" {
		fmt.Println("Usage: /select <session-id>")
		return
	}
	if err := a.conversations.SelectSession(ctx, id); err != nil {
		return
	}
	current := a.conversations.Current()
	fmt.Printf("Switched to %q (%d messages).\n", current.Title, len(current.Messages))
	for _, msg := range tail(current.Messages, 6) {
		if msg.Role == api.RoleAssistant {
			printAssistant(msg.Content)
		} else {
			fmt.Printf("you: %s\n", msg.Content)
		}
	}
}

func (a *app) cmdDelete(ctx context.Context, id string) {
	if !a.allowed(guard.RequireAuth) {
		return
	}
	if id == "" {
		fmt.Println("Usage: /delete <session-id>")
		return
	}
	_ = a.conversations.DeleteSession(ctx, id)
}

func (a *app) cmdExport(path string) {
	if !a.allowed(guard.RequireAuth) {
		return
	}
	current := a.conversations.Current()
	if current == nil {
		fmt.Println("No session selected. Use /select first.")
		return
	}
	if path == "" {
		path = fmt.Sprintf("solace-%s.html", current.ID)
	}
	f, err := os.Create(path)
	if err != nil {
		a.notifier.Error("Failed to export session")
		return
	}
	defer f.Close()
	if err := export.WriteHTML(f, current); err != nil {
		a.notifier.Error("Failed to export session")
		return
	}
	a.notifier.Success(fmt.Sprintf("Exported to %s", path))
}

// printAssistant renders an assistant reply with a dim prefix.
func printAssistant(content string) {
	prefix := color.New(color.FgGreen).Sprint("assistant")
	for i, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if i == 0 {
			fmt.Printf("%s: %s\n", prefix, line)
		} else {
			fmt.Printf("           %s\n", line)
		}
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /login            Log in with email and password")
	fmt.Println("  /signup           Create a new account")
	fmt.Println("  /verify <token>   Verify your email address")
	fmt.Println("  /forgot <email>   Request a password reset email")
	fmt.Println("  /reset <token>    Set a new password with a reset token")
	fmt.Println("  /logout           Log out and clear stored tokens")
	fmt.Println("  /whoami           Show the logged-in account")
	fmt.Println("  /sessions         List your chat sessions")
	fmt.Println("  /select <id>      Switch to a session")
	fmt.Println("  /new              Start a fresh conversation")
	fmt.Println("  /delete <id>      Delete a session")
	fmt.Println("  /export [path]    Export the current session to HTML")
	fmt.Println("  /help             Show this help")
	fmt.Println("  /quit             Exit")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func tail(msgs []api.ChatMessage, n int) []api.ChatMessage {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr so they never interleave with the chat stream
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
