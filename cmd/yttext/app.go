package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"yttext/internal/captionfmt"
	"yttext/internal/config"
	"yttext/internal/digest"
	"yttext/internal/list"
	"yttext/internal/server"
	"yttext/internal/setup"
	"yttext/internal/tui"
	"yttext/internal/version"
	"yttext/internal/youtube"
	"yttext/internal/yttextdb"
)

func videoArg() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "video",
			UsageText: "video id or YouTube URL",
		},
	}
}

func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "yttext",
		Usage:     "Print the captions of a YouTube video",
		UsageText: "yttext [options] <video id or url>",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "caption language (default: config, then locale)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output format: text, srt, vtt or json"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to config file", Sources: cli.EnvVars(config.EnvConfigPath)},
			&cli.BoolFlag{Name: "save", Usage: "store the transcript in the local archive"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log each pipeline step to stderr"},
		},
		Arguments: videoArg(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.StringArg("video") == "" {
				return cli.ShowRootCommandHelp(c)
			}
			return runFetch(ctx, c, stdout)
		},
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "List the caption tracks of a video",
				Arguments: videoArg(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return runTracks(ctx, c, stdout)
				},
			},
			{
				Name:      "show",
				Usage:     "Print a saved transcript without fetching it",
				Arguments: videoArg(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return runShow(ctx, c, stdout)
				},
			},
			{
				Name:  "history",
				Usage: "List saved transcripts",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "hours", Usage: "Time window in hours", Value: 24},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ac, err := loadConfig(c)
					if err != nil {
						return err
					}
					return list.Run(ctx, stdout, ac.Database.Path, c.Int("hours"))
				},
			},
			{
				Name:  "server",
				Usage: "Run MCP server on stdio",
				Action: func(ctx context.Context, c *cli.Command) error {
					if _, err := loadConfig(c); err != nil {
						return err
					}
					return server.Run(ctx, config.AppConfigLoader(c.String("config")), setup.NewLogger(c.Bool("verbose")))
				},
			},
			{
				Name:      "digest",
				Usage:     "Summarize a video with the configured AI endpoint",
				Arguments: videoArg(),
				Action: func(ctx context.Context, c *cli.Command) error {
					ac, lang, err := configAndLanguage(c)
					if err != nil {
						return err
					}
					client := setup.NewClient(ac, lang, setup.NewLogger(c.Bool("verbose")))
					return digest.Run(ctx, stdout, ac, client, c.StringArg("video"), lang)
				},
			},
			{
				Name:      "browse",
				Usage:     "Browse the captions of a video in the terminal",
				Arguments: videoArg(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return runBrowse(ctx, c)
				},
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write a default configuration file",
						Action: func(ctx context.Context, c *cli.Command) error {
							path, err := setup.WriteDefaultConfig(c.String("config"))
							if err != nil {
								return err
							}
							fmt.Fprintf(stdout, "Configuration written to %s\n", path)
							return nil
						},
					},
					{
						Name:  "path",
						Usage: "Print the configuration file location",
						Action: func(ctx context.Context, c *cli.Command) error {
							path := c.String("config")
							if path == "" {
								p, err := config.ConfigPath()
								if err != nil {
									return err
								}
								path = p
							}
							fmt.Fprintln(stdout, config.ExpandPath(path))
							return nil
						},
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Fprintln(stdout, version.GetVersion())
					return nil
				},
			},
		},
	}
}

func loadConfig(c *cli.Command) (config.AppConfig, error) {
	ac, err := config.LoadAppConfigFrom(c.String("config"))
	if err != nil {
		return ac, fmt.Errorf("failed to load config: %w", err)
	}
	return ac, nil
}

func configAndLanguage(c *cli.Command) (config.AppConfig, string, error) {
	ac, err := loadConfig(c)
	if err != nil {
		return ac, "", err
	}
	lang, err := setup.Language(c.String("lang"), ac)
	if err != nil {
		return ac, "", err
	}
	return ac, lang, nil
}

func outputFormat(c *cli.Command, ac config.AppConfig) (captionfmt.Format, error) {
	if f := c.String("format"); strings.TrimSpace(f) != "" {
		return captionfmt.Parse(f)
	}
	return captionfmt.Parse(ac.Format)
}

func runFetch(ctx context.Context, c *cli.Command, stdout io.Writer) error {
	ac, lang, err := configAndLanguage(c)
	if err != nil {
		return err
	}
	format, err := outputFormat(c, ac)
	if err != nil {
		return err
	}

	client := setup.NewClient(ac, lang, setup.NewLogger(c.Bool("verbose")))
	t, err := client.FetchTranscript(ctx, c.StringArg("video"), lang)
	if err != nil {
		return err
	}

	if c.Bool("save") {
		if err := save(ctx, ac, client, lang, t); err != nil {
			return err
		}
	}
	return captionfmt.Write(stdout, format, t.Captions)
}

func save(ctx context.Context, ac config.AppConfig, client *youtube.Client, lang string, t *youtube.Transcript) error {
	db, err := yttextdb.Open(ac.Database.Path)
	if err != nil {
		return fmt.Errorf("failed opening the yttext archive: %w", err)
	}
	defer db.Close()
	return yttextdb.SaveTranscript(ctx, db, yttextdb.TranscriptInsert{
		VideoID:  t.VideoID,
		Lang:     lang,
		VssID:    t.Track.VssID,
		URL:      client.WatchURL(t.VideoID),
		Captions: t.Captions,
	})
}

func runTracks(ctx context.Context, c *cli.Command, stdout io.Writer) error {
	ac, err := loadConfig(c)
	if err != nil {
		return err
	}
	videoID, err := youtube.ResolveID(c.StringArg("video"))
	if err != nil {
		return err
	}
	client := setup.NewClient(ac, c.String("lang"), setup.NewLogger(c.Bool("verbose")))
	tracks, err := client.ListTracks(ctx, videoID)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{t.VssID, t.LanguageCode, t.Kind, t.Name})
	}
	_, err = fmt.Fprintln(stdout, renderTable([]string{"VSS ID", "Language", "Kind", "Name"}, rows))
	return err
}

func runShow(ctx context.Context, c *cli.Command, stdout io.Writer) error {
	ac, lang, err := configAndLanguage(c)
	if err != nil {
		return err
	}
	format, err := outputFormat(c, ac)
	if err != nil {
		return err
	}
	videoID, err := youtube.ResolveID(c.StringArg("video"))
	if err != nil {
		return err
	}

	db, err := yttextdb.Open(ac.Database.Path)
	if err != nil {
		return fmt.Errorf("failed opening the yttext archive: %w", err)
	}
	defer db.Close()

	t, err := yttextdb.GetTranscript(ctx, db, videoID, lang)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("no saved transcript for %s in %s", videoID, lang)
	}
	return captionfmt.Write(stdout, format, t.Captions)
}

func runBrowse(ctx context.Context, c *cli.Command) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return fmt.Errorf("browse needs an interactive terminal")
	}
	ac, lang, err := configAndLanguage(c)
	if err != nil {
		return err
	}
	client := setup.NewClient(ac, lang, setup.NewLogger(c.Bool("verbose")))
	t, err := client.FetchTranscript(ctx, c.StringArg("video"), lang)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Transcript{
		VideoID:  t.VideoID,
		Lang:     lang,
		URL:      client.WatchURL(t.VideoID),
		Captions: t.Captions,
	})
}
