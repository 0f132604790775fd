package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		PollTimeoutSec int `mapstructure:"poll_timeout_sec"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Gym struct {
		Addr string
	} `mapstructure:"gym"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	TMDB struct {
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		Language string
		Pages    int
	} `mapstructure:"tmdb"`

	Embeddings struct {
		Provider string
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		Model    string
	} `mapstructure:"embeddings"`

	Index struct {
		Path string
	} `mapstructure:"index"`

	Recommend struct {
		TopN int `mapstructure:"top_n"`
	} `mapstructure:"recommend"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Секреты (токены, ключи API) переопределяются через ENV (APP_*)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Recommend.TopN <= 0 {
		c.Recommend.TopN = 5
	}
	return c, nil
}
