// Command taskctl talks to the task API from the shell.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/client"
	"taskboard-backend/internal/tasks"
)

const usage = `usage: taskctl [-url URL] [-token TOKEN] <command> [flags]

commands:
  list                                   print all tasks
  create -title T [-description D]       create a task
  update -id N [-title T] [-description D | -clear-description] [-completed true|false]
  delete -id N                           delete a task
  stats [-days N]                        completed/pending counts and per-day completions
  token -secret S [-subject S] [-ttl D]  mint a service token
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	baseURL := global.String("url", envOr("TASKS_URL", "http://localhost:3000"), "API base URL")
	token := global.String("token", os.Getenv("TASKS_TOKEN"), "bearer token")
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}

	c := client.New(*baseURL, client.WithToken(*token), client.WithHeader("X-Platform", "cli"))
	cmd, cmdArgs := strings.ToLower(rest[0]), rest[1:]

	var (
		out any
		err error
	)
	switch cmd {
	case "list":
		out, err = c.List(ctx)
	case "create":
		out, err = runCreate(ctx, c, cmdArgs, stderr)
	case "update":
		out, err = runUpdate(ctx, c, cmdArgs, stderr)
	case "delete":
		err = runDelete(ctx, c, cmdArgs, stderr)
	case "stats":
		out, err = runStats(ctx, c, cmdArgs, stderr)
	case "token":
		out, err = runToken(cmdArgs, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if out != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}
	return 0
}

var errUsage = errors.New("usage")

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runCreate(ctx context.Context, c *client.Client, args []string, stderr io.Writer) (any, error) {
	fs := newFlagSet("create", stderr)
	title := fs.String("title", "", "task title (required)")
	desc := fs.String("description", "", "task description")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	var description *string
	if flagSet(fs, "description") {
		description = desc
	}
	return c.Create(ctx, *title, description)
}

func runUpdate(ctx context.Context, c *client.Client, args []string, stderr io.Writer) (any, error) {
	fs := newFlagSet("update", stderr)
	id := fs.Int64("id", 0, "task id (required)")
	title := fs.String("title", "", "new title")
	desc := fs.String("description", "", "new description")
	clearDesc := fs.Bool("clear-description", false, "set description to null")
	completed := fs.String("completed", "", "true or false")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if *id <= 0 {
		fmt.Fprintln(stderr, "update: -id is required")
		return nil, errUsage
	}

	var patch tasks.Patch
	if flagSet(fs, "title") {
		patch.Title = tasks.Some(*title)
	}
	switch {
	case *clearDesc && flagSet(fs, "description"):
		fmt.Fprintln(stderr, "update: -description and -clear-description are exclusive")
		return nil, errUsage
	case *clearDesc:
		patch.Description = tasks.Null[string]()
	case flagSet(fs, "description"):
		patch.Description = tasks.Some(*desc)
	}
	if flagSet(fs, "completed") {
		b, err := strconv.ParseBool(*completed)
		if err != nil {
			fmt.Fprintf(stderr, "update: -completed: %v\n", err)
			return nil, errUsage
		}
		patch.Completed = tasks.Some(b)
	}
	if patch.Empty() {
		fmt.Fprintln(stderr, "update: nothing to change")
		return nil, errUsage
	}
	return c.Update(ctx, *id, patch)
}

func runDelete(ctx context.Context, c *client.Client, args []string, stderr io.Writer) error {
	fs := newFlagSet("delete", stderr)
	id := fs.Int64("id", 0, "task id (required)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id <= 0 {
		fmt.Fprintln(stderr, "delete: -id is required")
		return errUsage
	}
	return c.Delete(ctx, *id)
}

func runStats(ctx context.Context, c *client.Client, args []string, stderr io.Writer) (any, error) {
	fs := newFlagSet("stats", stderr)
	days := fs.Int("days", 0, "window in days (server default when 0)")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	return c.Stats(ctx, *days)
}

func runToken(args []string, stderr io.Writer) (any, error) {
	fs := newFlagSet("token", stderr)
	secret := fs.String("secret", os.Getenv("TASKS_AUTH_SECRET"), "signing secret")
	subject := fs.String("subject", "taskctl", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if *secret == "" {
		fmt.Fprintln(stderr, "token: -secret or TASKS_AUTH_SECRET is required")
		return nil, errUsage
	}
	tok, err := auth.GenerateToken([]byte(*secret), *subject, *ttl)
	if err != nil {
		return nil, err
	}
	return map[string]string{"token": tok}, nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
