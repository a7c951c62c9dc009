package config

import "fmt"

type Config struct {
	// Анализ
	DataDir            string   `koanf:"data_dir"`
	Extensions         []string `koanf:"extensions"`
	Encodings          []string `koanf:"encodings"`
	HeaderRow          int      `koanf:"header_row"`
	DefaultScoreColumn string   `koanf:"default_score_column"`
	TopN               int      `koanf:"top_n"`
	ScoreTolerance     float64  `koanf:"score_tolerance"` // 0 = точное сравнение
	ProbeBytes         int      `koanf:"probe_bytes"`

	// HTTP (serve)
	Host         string   `koanf:"host"`
	Port         int      `koanf:"port"`
	AllowOrigins []string `koanf:"allow_origins"`

	LogLevel string `koanf:"log_level"`
	LogFile  string `koanf:"log_file"`
}

func Default() Config {
	return Config{
		DataDir:            "data",
		Extensions:         []string{".csv"},
		Encodings:          []string{"utf-8", "gbk", "gb18030", "gb2312"},
		HeaderRow:          1,
		DefaultScoreColumn: "评分",
		TopN:               10,
		ScoreTolerance:     0,
		ProbeBytes:         200,
		Host:               "127.0.0.1",
		Port:               8082,
		AllowOrigins:       []string{"*"},
		LogLevel:           "info",
		LogFile:            "logs/scenic-score.log",
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case len(c.Extensions) == 0:
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalidConfig)
	case len(c.Encodings) == 0:
		return fmt.Errorf("%w: encodings must not be empty", ErrInvalidConfig)
	case c.HeaderRow < 1:
		return fmt.Errorf("%w: header_row is 1-based", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	case c.ScoreTolerance < 0:
		return fmt.Errorf("%w: score_tolerance must not be negative", ErrInvalidConfig)
	case c.ProbeBytes < 1:
		return fmt.Errorf("%w: probe_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
