// ABOUTME: Admin CLI for Solace user management and dashboard statistics
// ABOUTME: Uses the REST API with the same stored credentials as the chat client

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/2389/solace-client/internal/api"
	"github.com/2389/solace-client/internal/config"
	"github.com/2389/solace-client/internal/creds"
	"github.com/2389/solace-client/internal/notify"
	"github.com/2389/solace-client/internal/session"
)

const banner = `
           _                     _           _
 ___  ___ | | __ _  ___ ___     / \   __| |_ __ ___ (_)_ __
/ __|/ _ \| |/ _' |/ __/ _ \   / _ \ / _' | '_ ' _ \| | '_ \
\__ \ (_) | | (_| | (_|  __/  / ___ \ (_| | | | | | | | | | |
|___/\___/|_|\__,_|\___\___| /_/   \_\__,_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	env, err := setup()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer env.store.Close()

	ctx := context.Background()

	switch cmd {
	case "login":
		err = env.cmdLogin(ctx)
	case "logout":
		err = env.cmdLogout(ctx)
	case "status":
		err = env.cmdStatus(ctx)
	case "me":
		err = env.cmdMe(ctx)
	case "dashboard":
		err = env.cmdDashboard(ctx)
	case "users":
		err = env.cmdUsers(ctx, args)
	case "toggle":
		err = env.cmdToggle(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

// env bundles the wired client stack for one command invocation.
type env struct {
	cfg      *config.Config
	store    *creds.SQLiteStore
	client   *api.Client
	sessions *session.Manager
}

func setup() (*env, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := creds.NewSQLiteStore(cfg.Credentials.Path)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := api.New(cfg.Server.BaseURL, store, logger)
	sessions := session.NewManager(client, store, notify.NewTerminal(os.Stdout), logger)

	return &env{cfg: cfg, store: store, client: client, sessions: sessions}, nil
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: solace-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  login                   Log in with email and password")
	fmt.Println("  logout                  Log out and clear stored tokens")
	fmt.Println("  status                  Show server and credential status")
	fmt.Println("  me                      Show your identity")
	fmt.Println("  dashboard               Show user and session statistics")
	fmt.Println("  users [--skip N] [--limit N]")
	fmt.Println("                          List registered users")
	fmt.Println("  toggle <user-id>        Toggle a user's active flag")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SOLACE_SERVER           Backend base URL (overrides config)")
	fmt.Println("  SOLACE_CONFIG           Config file path")
}

func (e *env) cmdLogin(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading email: %w", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if err := e.sessions.Login(ctx, email, string(pw)); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := e.sessions.User()
	if !user.IsAdmin {
		color.Yellow("Note: %s is not an admin account; admin commands will be rejected.\n", user.Email)
	}
	return nil
}

func (e *env) cmdLogout(ctx context.Context) error {
	e.sessions.Logout(ctx)
	return nil
}

func (e *env) cmdStatus(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	cyan.Printf("Server:  ")
	fmt.Println(e.cfg.Server.BaseURL)

	token, err := e.store.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}
	cyan.Printf("Token:   ")
	if token == "" {
		fmt.Println("none (run: solace-admin login)")
		return nil
	}

	info, err := creds.InspectToken(token)
	if err != nil {
		fmt.Println("stored (unreadable)")
	} else if info.Expired() {
		color.Yellow("stored, expired %s\n", info.ExpiresAt.Format(time.RFC1123))
	} else if !info.ExpiresAt.IsZero() {
		fmt.Printf("stored, expires %s\n", info.ExpiresAt.Format(time.RFC1123))
	} else {
		fmt.Println("stored")
	}

	cyan.Printf("Auth:    ")
	user, err := e.client.CurrentUser(ctx)
	if err != nil {
		color.Red("rejected (%v)\n", err)
		return nil
	}
	green.Printf("ok")
	fmt.Printf(" (%s, admin: %v)\n", user.Email, user.IsAdmin)
	return nil
}

func (e *env) cmdMe(ctx context.Context) error {
	user, err := e.client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("fetching identity: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("%s", user.FullName)
	fmt.Printf(" <%s>\n", user.Email)
	fmt.Printf("  id:       %s\n", user.ID)
	fmt.Printf("  active:   %v\n", user.IsActive)
	fmt.Printf("  verified: %v\n", user.IsVerified)
	fmt.Printf("  admin:    %v\n", user.IsAdmin)
	fmt.Printf("  created:  %s\n", user.CreatedAt.Format(time.RFC1123))
	return nil
}

func (e *env) cmdDashboard(ctx context.Context) error {
	dash, err := e.client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("fetching dashboard: %w", err)
	}

	yellow := color.New(color.FgYellow)
	yellow.Println("Statistics:")
	fmt.Printf("  total users:    %d\n", dash.Stats.TotalUsers)
	fmt.Printf("  verified users: %d\n", dash.Stats.VerifiedUsers)
	fmt.Printf("  active users:   %d\n", dash.Stats.ActiveUsers)
	fmt.Printf("  chat sessions:  %d\n", dash.Stats.TotalChatSessions)

	if len(dash.RecentUsers) == 0 {
		return nil
	}
	fmt.Println()
	yellow.Println("Recent signups:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  EMAIL\tNAME\tVERIFIED\tACTIVE\tCREATED")
	for _, u := range dash.RecentUsers {
		fmt.Fprintf(w, "  %s\t%s\t%v\t%v\t%s\n",
			u.Email, u.FullName, u.IsVerified, u.IsActive, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (e *env) cmdUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	skip := fs.Int("skip", 0, "Number of users to skip")
	limit := fs.Int("limit", 50, "Maximum users to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	page, err := e.client.ListUsers(ctx, *skip, *limit)
	if err != nil {
		return fmt.Errorf("fetching users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACTIVE\tVERIFIED\tADMIN")
	for _, u := range page.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%v\n",
			u.ID, u.Email, u.FullName, u.IsActive, u.IsVerified, u.IsAdmin)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nShowing %d of %d (skip %d, limit %d)\n",
		len(page.Users), page.Total, page.Skip, page.Limit)
	return nil
}

func (e *env) cmdToggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: solace-admin toggle <user-id>")
	}

	resp, err := e.client.ToggleUserActive(ctx, args[0])
	if err != nil {
		return fmt.Errorf("toggling user: %w", err)
	}

	color.Green("%s\n", resp.Message)
	return nil
}
