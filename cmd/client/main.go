package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/iudanet/blogapi/internal/client/api"
	"github.com/iudanet/blogapi/internal/client/auth"
	clicmd "github.com/iudanet/blogapi/internal/client/cli"
	"github.com/iudanet/blogapi/internal/client/iocli"
	"github.com/iudanet/blogapi/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// client хранит глобальные флаги и открытые ресурсы на время команды
type client struct {
	store        *boltdb.Storage
	runner       *clicmd.Cli
	serverURL    string
	sessionPath  string
	password     string
	passwordFile string
}

func main() {
	cl := &client{}

	cli.VersionPrinter = func(*cli.Context) { printVersion() }

	app := &cli.App{
		Name:    "blog",
		Usage:   "Command-line client for the blog API",
		Version: Version,
		Flags:   cl.flags(),
		Before:  cl.open,
		After:   cl.close,
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Register a new user",
				ArgsUsage: "[username]",
				Action: func(c *cli.Context) error {
					return cl.runner.RunRegister(c.Context, c.Args().First(), cl.passwords())
				},
			},
			{
				Name:      "login",
				Usage:     "Log in and store the session locally",
				ArgsUsage: "[username]",
				Action: func(c *cli.Context) error {
					return cl.runner.RunLogin(c.Context, c.Args().First(), cl.passwords())
				},
			},
			{
				Name:  "logout",
				Usage: "Forget the local session",
				Action: func(c *cli.Context) error {
					return cl.runner.RunLogout(c.Context)
				},
			},
			{
				Name:  "status",
				Usage: "Show who is logged in",
				Action: func(c *cli.Context) error {
					return cl.runner.RunStatus(c.Context)
				},
			},
			cl.postsCmd(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func (cl *client) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name: "server", Usage: "server URL",
			EnvVars: []string{"BLOG_SERVER_URL"}, Value: "http://localhost:8000", Destination: &cl.serverURL,
		},
		&cli.StringFlag{
			Name: "session", Usage: "path to the local session database",
			EnvVars: []string{"BLOG_SESSION_DB"}, Value: "blog-client.db", Destination: &cl.sessionPath,
		},
		&cli.StringFlag{
			Name: "password", Usage: "password (not recommended, use " + clicmd.PasswordEnv + " or --password-file)",
			Destination: &cl.password,
		},
		&cli.StringFlag{
			Name: "password-file", Usage: "path to file containing the password",
			Destination: &cl.passwordFile,
		},
	}
}

func (cl *client) open(c *cli.Context) error {
	store, err := boltdb.New(c.Context, cl.sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	cl.store = store

	apiClient := api.NewClient(cl.serverURL)
	cl.runner = clicmd.New(iocli.NewStdio(), apiClient, auth.NewService(apiClient, store))
	return nil
}

func (cl *client) close(*cli.Context) error {
	if cl.store == nil {
		return nil
	}
	return cl.store.Close()
}

func (cl *client) passwords() clicmd.Passwords {
	return clicmd.Passwords{FromFile: cl.passwordFile, FromArgs: cl.password}
}

func (cl *client) postsCmd() *cli.Command {
	postFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "post title"},
			&cli.StringFlag{Name: "content", Usage: "post content"},
		}
	}

	return &cli.Command{
		Name:  "posts",
		Usage: "Read and write blog posts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List posts, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "page number"},
					&cli.IntFlag{Name: "page-size", Usage: "posts per page"},
				},
				Action: func(c *cli.Context) error {
					return cl.runner.RunListPosts(c.Context, c.Int("page"), c.Int("page-size"))
				},
			},
			{
				Name:      "get",
				Usage:     "Show a post",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := postID(c)
					if err != nil {
						return err
					}
					return cl.runner.RunGetPost(c.Context, id)
				},
			},
			{
				Name:  "create",
				Usage: "Publish a post",
				Flags: postFlags(),
				Action: func(c *cli.Context) error {
					return cl.runner.RunCreatePost(c.Context, c.String("title"), c.String("content"))
				},
			},
			{
				Name:      "update",
				Usage:     "Edit your post",
				ArgsUsage: "<id>",
				Flags:     postFlags(),
				Action: func(c *cli.Context) error {
					id, err := postID(c)
					if err != nil {
						return err
					}
					return cl.runner.RunUpdatePost(c.Context, id, c.String("title"), c.String("content"))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete your post",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := postID(c)
					if err != nil {
						return err
					}
					return cl.runner.RunDeletePost(c.Context, id)
				},
			},
		},
	}
}

func postID(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, errors.New("post id is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", c.Args().First())
	}
	return id, nil
}

func printVersion() {
	fmt.Printf("Blog Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
