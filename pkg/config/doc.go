// Package config loads typed configuration structs from environment variables.
//
// Each storefront package declares its own Config struct with `env` tags and
// loads it through Load or MustLoad. A .env file in the working directory is
// read once, if present, before the first parse. Each config type is parsed
// only once per process and cached; subsequent Load calls for the same type
// return the cached copy.
//
//	type Config struct {
//	    BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
//	    Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
