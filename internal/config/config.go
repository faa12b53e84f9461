package config

import (
	"fmt"
	"strings"

	"github.com/freshcart-admin/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Wizard   WizardConfig   `mapstructure:"wizard"`
	Import   ImportConfig   `mapstructure:"import"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release

	ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Level      string `mapstructure:"level"`  // 为空时按 server.mode 推断
	Stdout     bool   `mapstructure:"stdout"` // release 模式同时输出到标准输出
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Level:      c.Level,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver      string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN         string             `mapstructure:"dsn"`    // 数据库连接串
	AutoMigrate bool               `mapstructure:"auto_migrate"`
	Pool        DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置（会话存储）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// RateLimitConfig 向导/导入接口频率限制（依赖 Redis）
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// WizardConfig 活动向导配置
type WizardConfig struct {
	DraftTTLMinutes int `mapstructure:"draft_ttl_minutes"`
	LockTTLSeconds  int `mapstructure:"lock_ttl_seconds"`
	SearchLimit     int `mapstructure:"search_limit"`
	ListPageSize    int `mapstructure:"list_page_size"`
}

// ImportConfig 表格导入配置
type ImportConfig struct {
	PreviewTTLMinutes int         `mapstructure:"preview_ttl_minutes"`
	MaxRows           int         `mapstructure:"max_rows"`
	MaxFileSizeMB     int         `mapstructure:"max_file_size_mb"`
	Concurrency       int         `mapstructure:"concurrency"`
	LockTTLSeconds    int         `mapstructure:"lock_ttl_seconds"`
	Match             MatchConfig `mapstructure:"match"`
}

// MatchConfig 商品名称匹配阈值
type MatchConfig struct {
	MinOverlapWords     int     `mapstructure:"min_overlap_words"`
	OverlapRatio        float64 `mapstructure:"overlap_ratio"`
	MinSearchWordLen    int     `mapstructure:"min_search_word_len"`
	SearchLimit         int     `mapstructure:"search_limit"`
	FallbackScanLimit   int     `mapstructure:"fallback_scan_limit"`
	MaxSuggestions      int     `mapstructure:"max_suggestions"`
	MinContainedNameLen int     `mapstructure:"min_contained_name_len"`
	Locale              string  `mapstructure:"locale"`
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_timeout_seconds", 60)
	viper.SetDefault("server.write_timeout_seconds", 120)
	viper.SetDefault("server.shutdown_timeout_seconds", 10)
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("log.level", "")
	viper.SetDefault("log.stdout", false)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/freshcart.db")
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "fc")
	viper.SetDefault("queue.enabled", false)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 5)
	viper.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Locale",
		"X-Request-ID",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("rate_limit.window_seconds", 60)
	viper.SetDefault("rate_limit.max_requests", 240)
	viper.SetDefault("wizard.draft_ttl_minutes", 120)
	viper.SetDefault("wizard.lock_ttl_seconds", 30)
	viper.SetDefault("wizard.search_limit", 20)
	viper.SetDefault("wizard.list_page_size", 100)
	viper.SetDefault("import.preview_ttl_minutes", 60)
	viper.SetDefault("import.max_rows", 2000)
	viper.SetDefault("import.max_file_size_mb", 10)
	viper.SetDefault("import.concurrency", 8)
	viper.SetDefault("import.lock_ttl_seconds", 600)
	viper.SetDefault("import.match.min_overlap_words", 2)
	viper.SetDefault("import.match.overlap_ratio", 0.6)
	viper.SetDefault("import.match.min_search_word_len", 3)
	viper.SetDefault("import.match.search_limit", 20)
	viper.SetDefault("import.match.fallback_scan_limit", 1000)
	viper.SetDefault("import.match.max_suggestions", 3)
	viper.SetDefault("import.match.min_contained_name_len", 3)
	viper.SetDefault("import.match.locale", "en")
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	return LoadFrom("")
}

// LoadFrom 加载配置；path 非空时使用指定文件，否则按默认目录查找 config.yml
func LoadFrom(path string) *Config {
	// .env 仅补充未设置的环境变量
	if err := godotenv.Load(); err != nil {
		logger.Debugw("dotenv_not_loaded", "error", err)
	} else {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	if path = strings.TrimSpace(path); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // 从当前目录查找
		viper.AddConfigPath("../")   // 如果从 cmd/server 运行
		viper.AddConfigPath("./etc") // etc 文件夹
	}

	setDefaults()

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}
