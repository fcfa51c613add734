package repository

import (
	"net/url"

	"github.com/policyscope/policyscope/internal/config"
)

// ConfigFrom maps the DB_* and NAME_SEARCH_MODE settings onto a store Config.
func ConfigFrom(cfg *config.Config) Config {
	// Validate already rejected unparseable DB_PARAMS.
	params, _ := url.ParseQuery(cfg.Database.Params)
	if len(params) == 0 {
		params = nil
	}

	return Config{
		Driver: cfg.Database.Driver,
		Options: Options{
			Host:           cfg.Database.Host,
			Port:           cfg.Database.Port,
			User:           cfg.Database.User,
			Password:       cfg.Database.Password,
			Database:       cfg.Database.Name,
			Params:         params,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		},
		NameSearchMode: NameSearchMode(cfg.NameSearchMode),
		PingTimeout:    cfg.Database.ConnectTimeout,
	}
}
