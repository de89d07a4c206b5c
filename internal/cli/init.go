package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillcast/internal/config"
	"github.com/klauern/skillcast/internal/i18n"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/ui"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the source storage area and a default config file",
		Action: func(ctx context.Context, _ *cli.Command) error {
			e := envFrom(ctx)
			return e.withLock(func() error {
				fmt.Println(ui.Bold(e.t("app.title")))
				fmt.Println()

				if err := os.MkdirAll(e.storage, 0o750); err != nil {
					return model.Wrap(model.KindInternal, e.storage, err)
				}

				path := config.FilePath()
				if config.Exists() {
					fmt.Println(ui.StatusSuccess(e.t("init.exists", path)))
				} else {
					if err := e.cfg.Save(); err != nil {
						return model.Wrap(model.KindInternal, path, err)
					}
					fmt.Println(ui.StatusSuccess(e.t("init.created", path)))
				}
				fmt.Println(ui.Dim(e.t("init.storage", e.storage)))

				fmt.Println()
				fmt.Println(ui.Info(e.t("init.next")))
				fmt.Println(e.t("init.hint.add"))
				fmt.Println(e.t("init.hint.list"))
				fmt.Println(e.t("init.hint.use"))
				return nil
			})
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display configuration or change settings",
		Description: `Without arguments, prints the config file.

   Examples:
     skillcast config
     skillcast config lang ko`,
		Flags: []cli.Flag{formatFlag()},
		Commands: []*cli.Command{
			{
				Name:      "lang",
				Usage:     "Set the message language (en, ko)",
				UsageText: "skillcast config lang <en|ko>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e := envFrom(ctx)
					if cmd.Args().Len() != 1 {
						return model.Errorf(model.KindInvalid, "config lang", "requires exactly one language argument (en, ko)")
					}
					tag, err := i18n.Parse(cmd.Args().First())
					if err != nil {
						return err
					}
					base, _ := tag.Base()
					lang := base.String()

					return e.withLock(func() error {
						e.cfg.SetLang(lang)
						if err := e.cfg.Save(); err != nil {
							return model.Wrap(model.KindInternal, config.FilePath(), err)
						}
						// The new language applies to this message already.
						e.msg = i18n.New(lang)
						fmt.Println(ui.StatusSuccess(e.t("config.lang.set", lang)))
						return nil
					})
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			format, err := e.outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == config.FormatJSON {
				return outputAnyJSON(configView(e.cfg))
			}
			data, err := e.cfg.Encode()
			if err != nil {
				return model.Wrap(model.KindInternal, "config", err)
			}
			if format == config.FormatTable {
				fmt.Println(ui.Dim(e.t("config.path", config.FilePath())))
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

// configView is the JSON rendering of the configuration.
func configView(cfg *config.Config) map[string]any {
	sources := make(map[string]map[string]string, len(cfg.Sources))
	for _, src := range cfg.Sources {
		key := "path"
		if src.IsRemote() {
			key = "url"
		}
		sources[src.Name] = map[string]string{"type": src.Kind.String(), key: src.Origin}
	}
	return map[string]any{
		"lang":    cfg.Lang,
		"output":  map[string]string{"format": cfg.Output.Format, "color": cfg.Output.Color},
		"sources": sources,
	}
}
