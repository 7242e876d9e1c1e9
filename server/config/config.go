package config

import (
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/botize/appserver/apps"
)

const DefaultListenAddr = ":8066"

// Config is the process configuration. Per-application values (API keys,
// sandbox flags, SMTP relays) live under Apps and are handed to the
// application constructors; nothing app-specific is compiled in.
type Config struct {
	ListenAddr string `yaml:"listen_addr" env:"APPSERVER_LISTEN_ADDR"`

	// DevMode enables verbose logging and error detail in responses.
	DevMode bool `yaml:"dev_mode" env:"APPSERVER_DEV_MODE"`

	// Apps maps an application id to its settings.
	Apps map[string]apps.Settings `yaml:"apps"`
}

func (c Config) AppSettings(appID apps.AppID) apps.Settings {
	if s, ok := c.Apps[string(appID)]; ok {
		return s
	}
	return apps.Settings{}
}

// Load reads the optional YAML config file and overlays environment
// variables. An empty path skips the file. A .env file in the working
// directory is honored when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	conf := Config{
		ListenAddr: DefaultListenAddr,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %q", path)
		}
		if err = yaml.Unmarshal(data, &conf); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %q", path)
		}
	}

	if err := envdecode.Decode(&conf); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, errors.Wrap(err, "failed to decode environment")
	}

	if conf.ListenAddr == "" {
		conf.ListenAddr = DefaultListenAddr
	}

	return conf, nil
}
