// Package config handles input from etc/*.toml files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STAFFPANEL_WEBSERVER_PORT.
	EnvPrefix = "STAFFPANEL"

	redacted = "***"
)

// legacyEnv maps config keys to the plain environment names used by older deployments.
var legacyEnv = map[string]string{ //nolint:gochecknoglobals
	"discord.clientid":     "CLIENT_ID",
	"discord.clientsecret": "CLIENT_SECRET",
	"discord.bottoken":     "BOT_TOKEN",
	"discord.guildid":      "GUILD_ID",
	"discord.redirecturl":  "REDIRECT_URI",
	"webserver.port":       "PORT",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, errors.Wrap(err, "failed to bind env "+env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Staff Panel")
	v.SetDefault("webserver.port", 3000)
	v.SetDefault("webserver.shutdowntime", 5)
	v.SetDefault("webserver.session.expirytime", 24*time.Hour)
	v.SetDefault("webserver.session.storage", "memory")
	v.SetDefault("webserver.session.table", "sessions")
	v.SetDefault("discord.mutationrate", 5.0)
	v.SetDefault("discord.mutationburst", 5)
	v.SetDefault("auth.stateexpiry", 5*time.Minute)
	v.SetDefault("roster.freshfor", 10*time.Minute)
	v.SetDefault("roster.fetchtimeout", 30*time.Second)
	v.SetDefault("roster.warmupdelay", 5*time.Second)
	v.SetDefault("audit.timezone", "Europe/Warsaw")
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "staffpanel")
	v.SetDefault("log.servicename", "staffpanel")
	v.SetDefault("log.console.enabled", true)
}

// Redacted returns a copy of c with credentials masked.
func Redacted(c Config) Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}

		return redacted
	}

	c.Discord.ClientSecret = mask(c.Discord.ClientSecret)
	c.Discord.BotToken = mask(c.Discord.BotToken)
	c.Webserver.Session.StorageURI = mask(c.Webserver.Session.StorageURI)

	return c
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings needed to talk to discord and serve http.
// Role tables are validated by the ladder package which knows the categories.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Discord.GuildID == "" {
		return errors.Wrap(ErrEmptyGuildID, invalidErrMessage)
	}

	if c.Discord.BotToken == "" {
		return errors.Wrap(ErrEmptyBotToken, invalidErrMessage)
	}

	if len(c.Roles.Eligible) == 0 {
		return errors.Wrap(ErrNoEligibleRoles, invalidErrMessage)
	}

	switch c.Webserver.Session.Storage {
	case "", "memory", "postgres", "mysql":
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	return nil
}
