package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"yatube/config"
	"yatube/internal/app"
	"yatube/internal/service"
	"yatube/pkg/logger"
)

const usage = `usage: yatube [-env file] <command> [flags]

commands:
  serve                       run the HTTP server (default)
  migrate                     apply database migrations
  group create -title T -slug S -description D
  group delete -slug S
  group list
`

var errUsage = errors.New("bad usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.FromContext(ctx).Error("yatube failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yatube", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "dotenv file to load before reading the environment")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cmd, rest := "serve", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	var groupCmd func(ctx context.Context, groups *service.GroupService) error
	switch cmd {
	case "serve", "migrate":
		if len(rest) > 0 {
			return fmt.Errorf("%w: %s takes no arguments", errUsage, cmd)
		}
	case "group":
		var err error
		if groupCmd, err = parseGroupCommand(rest, stdout, stderr); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		return err
	}
	log := logger.New(stderr, cfg.LogLevel)
	ctx = logger.WithLogger(ctx, log)

	switch cmd {
	case "migrate":
		if err := app.Migrate(ctx, cfg); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil

	case "group":
		if cfg.StorageType != config.StoragePostgres {
			log.Warn("group changes are lost on exit with in-memory storage")
		}
		a, err := app.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return groupCmd(ctx, a.Groups)

	default:
		a, err := app.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		return a.Run(ctx)
	}
}

func parseGroupCommand(args []string, stdout, stderr io.Writer) (func(context.Context, *service.GroupService) error, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: group needs a subcommand", errUsage)
	}

	fs := flag.NewFlagSet("group "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch args[0] {
	case "create":
		var req service.CreateGroupRequest
		fs.StringVar(&req.Title, "title", "", "group title")
		fs.StringVar(&req.Slug, "slug", "", "unique group slug")
		fs.StringVar(&req.Description, "description", "", "group description")
		if err := fs.Parse(args[1:]); err != nil {
			return nil, errUsage
		}
		if req.Slug == "" || req.Title == "" {
			return nil, fmt.Errorf("%w: -title and -slug are required", errUsage)
		}
		return func(ctx context.Context, groups *service.GroupService) error {
			g, err := groups.CreateGroup(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "created group %d %s\n", g.ID, g.Slug)
			return nil
		}, nil

	case "delete":
		slug := fs.String("slug", "", "slug of the group to delete")
		if err := fs.Parse(args[1:]); err != nil {
			return nil, errUsage
		}
		if *slug == "" {
			return nil, fmt.Errorf("%w: -slug is required", errUsage)
		}
		return func(ctx context.Context, groups *service.GroupService) error {
			if err := groups.DeleteGroup(ctx, *slug); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "deleted group %s\n", *slug)
			return nil
		}, nil

	case "list":
		if err := fs.Parse(args[1:]); err != nil {
			return nil, errUsage
		}
		return func(ctx context.Context, groups *service.GroupService) error {
			list, err := groups.ListGroups(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
			for _, g := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return tw.Flush()
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown group subcommand %q", errUsage, args[0])
	}
}
