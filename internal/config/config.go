package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root service configuration (configs/config.yaml).
type Config struct {
	IIS struct {
		BaseURL         string `yaml:"base_url"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"iis"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Database struct {
		Path          string `yaml:"path"`
		KeepSnapshots int    `yaml:"keep_snapshots"`
	} `yaml:"database"`

	Fetch struct {
		Workers       int     `yaml:"workers"`
		RatePerSecond float64 `yaml:"rate_per_second"`
		Burst         int     `yaml:"burst"`
		RefreshCron   string  `yaml:"refresh_cron"`
	} `yaml:"fetch"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		Enabled  bool    `yaml:"enabled"`
		BotToken string  `yaml:"bot_token"`
		Debug    bool    `yaml:"debug"`
		Managers []int64 `yaml:"managers"`
	} `yaml:"telegram"`

	Institution Institution `yaml:"institution"`
}

// Institution holds the fixed constants of the schedule domain: weekday
// naming, the display slots, the rooms to aggregate over and the lesson
// type abbreviations. They are configuration, not hidden literals, so a
// deployment for another faculty only needs another YAML file.
type Institution struct {
	DayNames  []string          `yaml:"day_names"`  // Sunday first, 7 names
	TimeSlots []string          `yaml:"time_slots"` // "HH:MM—HH:MM", in display order
	Rooms     []string          `yaml:"rooms"`
	TypeMap   map[string]string `yaml:"lesson_types"`
}

// Load reads, expands and validates the configuration, applying defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.IIS.BaseURL == "" {
		c.IIS.BaseURL = "https://iis.bsuir.by/api/v1"
	}
	if c.IIS.TimeoutSeconds <= 0 {
		c.IIS.TimeoutSeconds = 15
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/roomboard.db"
	}
	if c.Database.KeepSnapshots <= 0 {
		c.Database.KeepSnapshots = 7
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = 8
	}
	if c.Fetch.RatePerSecond <= 0 {
		c.Fetch.RatePerSecond = 10
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = 20
	}
	if c.Fetch.RefreshCron == "" {
		c.Fetch.RefreshCron = "0 6 * * *"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	c.Institution.applyDefaults()
}

func (i *Institution) applyDefaults() {
	if len(i.DayNames) == 0 {
		i.DayNames = []string{
			"Воскресенье", "Понедельник", "Вторник", "Среда",
			"Четверг", "Пятница", "Суббота",
		}
	}
	if len(i.TimeSlots) == 0 {
		i.TimeSlots = []string{
			"09:00—10:20",
			"10:35—11:55",
			"12:25—13:45",
			"14:00—15:20",
			"15:50—17:10",
			"17:25—18:45",
			"19:00—20:20",
			"20:40—22:00",
		}
	}
	if len(i.Rooms) == 0 {
		i.Rooms = []string{
			"502-2 к.", "601-2 к.", "603-2 к.", "604-2 к.", "605-2 к.",
			"607-2 к.", "611-2 к.", "613-2 к.", "615-2 к.",
		}
	}
	if len(i.TypeMap) == 0 {
		i.TypeMap = map[string]string{
			"ЛК":           "lecture",
			"ПЗ":           "practice",
			"ЛР":           "lab",
			"Экзамен":      "exam",
			"Консультация": "consultation",
			"Организация":  "organization",
			"Зачет":        "test",
			"УЛк":          "instructional-lecture",
			"УПз":          "instructional-practice",
			"УЛР":          "instructional-lab",
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Institution.DayNames) != 7 {
		return fmt.Errorf("institution.day_names: expected 7 names, got %d", len(c.Institution.DayNames))
	}
	if len(c.Institution.TimeSlots) == 0 {
		return fmt.Errorf("institution.time_slots: at least one slot is required")
	}
	if len(c.Institution.Rooms) == 0 {
		return fmt.Errorf("institution.rooms: at least one room is required")
	}
	seen := make(map[string]bool)
	for i, room := range c.Institution.Rooms {
		if room == "" {
			return fmt.Errorf("institution.rooms[%d]: empty room name", i)
		}
		if seen[room] {
			return fmt.Errorf("institution.rooms[%d]: duplicate room %q", i, room)
		}
		seen[room] = true
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram.enabled")
	}
	return nil
}

// IISTimeout returns the upstream HTTP timeout.
func (c *Config) IISTimeout() time.Duration {
	return time.Duration(c.IIS.TimeoutSeconds) * time.Second
}

// CacheTTL returns the Redis cache TTL; zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.IIS.CacheTTLSeconds) * time.Second
}
