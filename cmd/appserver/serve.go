package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/botize/appserver/examples/randmail"
	"github.com/botize/appserver/examples/webnotes"
	"github.com/botize/appserver/server/appregistry"
	"github.com/botize/appserver/server/config"
	"github.com/botize/appserver/server/dispatch"
	"github.com/botize/appserver/server/httpin"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the application server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(configPath)
		if err != nil {
			log.WithError(err).Errorf("failed to load configuration")
			return err
		}
		if listenAddr != "" {
			conf.ListenAddr = listenAddr
		}

		registry := appregistry.NewRegistry()
		if err = registerApps(registry, conf); err != nil {
			log.WithError(err).Errorf("failed to register applications")
			return err
		}

		dispatcher := dispatch.NewService(registry, conf, log)
		handler := httpin.NewHandler(dispatcher, log, conf.DevMode)

		log.Infow("serving applications",
			"addr", conf.ListenAddr,
			"apps", registry.IDs(),
		)
		err = http.ListenAndServe(conf.ListenAddr, handler)
		return errors.Wrap(err, "server stopped")
	},
}

func registerApps(registry *appregistry.Registry, conf config.Config) error {
	if err := registry.Register(randmail.AppID, randmail.New, conf.AppSettings(randmail.AppID)); err != nil {
		return err
	}
	return registry.Register(webnotes.AppID, webnotes.New, conf.AppSettings(webnotes.AppID))
}
