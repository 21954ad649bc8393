package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 保存应用程序配置。
type Config struct {
	App      AppConfig      `json:"app"`
	Redis    RedisConfig    `json:"redis"`
	Catalog  CatalogConfig  `json:"catalog"`
	Security SecurityConfig `json:"security"`
	CORS     CORSConfig     `json:"cors"`
}

// AppConfig 应用程序基础配置。
type AppConfig struct {
	Env                string        `json:"env"`                  // 运行环境: local / prod
	LogLevel           string        `json:"log_level"`            // 日志级别: debug / info / warn / error
	HTTPAddr           string        `json:"http_addr"`            // API 服务监听地址
	SearchDelay        time.Duration `json:"search_delay"`         // 检索前的模拟延迟（如 "250ms"，0 关闭）
	DefaultPageSize    int           `json:"default_page_size"`    // 未指定 page_size 时的每页条数
	MaxPageSize        int           `json:"max_page_size"`        // page_size 上限
	RateLimit          float64       `json:"rate_limit"`           // 每个客户端 IP 的限流速率（token/s），<=0 关闭
	RateBurst          float64       `json:"rate_burst"`           // 限流桶容量
	IdempotencyWindow  time.Duration `json:"idempotency_window"`   // Idempotency-Key 去重窗口
	EventWorkers       int           `json:"event_workers"`        // 变更通知投递 worker 数
	EventQueueCapacity int           `json:"event_queue_capacity"` // 变更通知投递队列容量
	DemoProfileID      string        `json:"demo_profile_id"`      // 启动时预置数据的 profile，为空不预置
}

// RedisConfig Redis 配置。
type RedisConfig struct {
	Addr        string `json:"addr"`         // Redis 地址 (host:port)
	Password    string `json:"password"`     // Redis 密码
	DB          int    `json:"db"`           // 数据库编号
	SyncChannel string `json:"sync_channel"` // 变更通知频道
}

// CatalogConfig 目录生成输入。
type CatalogConfig struct {
	BrandsPath string `json:"brands_path"` // 品牌 JSON 文件，为空使用内置品牌
}

// SecurityConfig 匿名 profile 令牌配置。
type SecurityConfig struct {
	ProfileSecret string        `json:"profile_secret"` // HS256 签名密钥
	ProfileTTL    time.Duration `json:"profile_ttl"`    // 令牌有效期
}

// CORSConfig 浏览器跨域配置。
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins"`
}

// Load 从 JSON 文件加载配置。
//
// 它会尝试读取 configs/config.json 文件，如果不存在则使用默认值；
// 随后加载工作目录下的 .env（不存在则忽略），最后由环境变量覆盖。
//
// 参数:
//
//	configPath: 配置文件路径（如果为空则使用默认路径 "configs/config.json")
//
// 返回值:
//
//	*Config: 加载完成的配置对象
//	error: 加载失败返回错误
func Load(configPath ...string) (*Config, error) {
	path := "configs/config.json"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}

	cfg := getDefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// 没有配置文件时仍允许环境变量覆盖默认值
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// 在默认值之上解析，文件中缺省的字段保留默认值
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		applyDefaults(cfg)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save 保存配置到 JSON 文件。
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// getDefaultConfig 返回默认配置。
func getDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:                "local",
			LogLevel:           "info",
			HTTPAddr:           ":8081",
			SearchDelay:        250 * time.Millisecond,
			DefaultPageSize:    12,
			MaxPageSize:        48,
			RateLimit:          20,
			RateBurst:          40,
			IdempotencyWindow:  10 * time.Minute,
			EventWorkers:       4,
			EventQueueCapacity: 1024,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			SyncChannel: "avnu-storage-sync",
		},
		Security: SecurityConfig{
			ProfileSecret: "dev_secret_change_me",
			ProfileTTL:    30 * 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
		},
	}
}

// applyDefaults 对未设置的字段应用默认值。
func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.App.Env == "" {
		cfg.App.Env = defaults.App.Env
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = defaults.App.LogLevel
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = defaults.App.HTTPAddr
	}
	if cfg.App.SearchDelay < 0 {
		cfg.App.SearchDelay = 0
	}
	if cfg.App.DefaultPageSize <= 0 {
		cfg.App.DefaultPageSize = defaults.App.DefaultPageSize
	}
	if cfg.App.MaxPageSize <= 0 {
		cfg.App.MaxPageSize = defaults.App.MaxPageSize
	}
	if cfg.App.MaxPageSize < cfg.App.DefaultPageSize {
		cfg.App.MaxPageSize = cfg.App.DefaultPageSize
	}
	if cfg.App.IdempotencyWindow == 0 {
		cfg.App.IdempotencyWindow = defaults.App.IdempotencyWindow
	}
	if cfg.App.EventWorkers == 0 {
		cfg.App.EventWorkers = defaults.App.EventWorkers
	}
	if cfg.App.EventQueueCapacity == 0 {
		cfg.App.EventQueueCapacity = defaults.App.EventQueueCapacity
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaults.Redis.Addr
	}
	if cfg.Redis.SyncChannel == "" {
		cfg.Redis.SyncChannel = defaults.Redis.SyncChannel
	}
	if cfg.Security.ProfileSecret == "" {
		cfg.Security.ProfileSecret = defaults.Security.ProfileSecret
	}
	if cfg.Security.ProfileTTL == 0 {
		cfg.Security.ProfileTTL = defaults.Security.ProfileTTL
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = defaults.CORS.AllowOrigins
	}
}

func applyEnvOverrides(cfg *Config) {
	viper.AutomaticEnv()

	_ = viper.BindEnv("redis_addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = viper.BindEnv("profile_secret", "PROFILE_SECRET")
	_ = viper.BindEnv("cors_allow_origins", "CORS_ALLOW_ORIGINS")
	_ = viper.BindEnv("catalog_brands_path", "CATALOG_BRANDS_PATH")

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("APP_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("APP_HTTP_ADDR"); v != "" {
		cfg.App.HTTPAddr = v
	}
	if v := os.Getenv("APP_SEARCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.App.SearchDelay = d
		}
	}
	if v := os.Getenv("APP_DEFAULT_PAGE_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.App.DefaultPageSize = i
		}
	}
	if v := os.Getenv("APP_MAX_PAGE_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.App.MaxPageSize = i
		}
	}
	if v := os.Getenv("APP_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.App.RateLimit = f
		}
	}
	if v := os.Getenv("APP_RATE_BURST"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.App.RateBurst = f
		}
	}
	if v := os.Getenv("APP_IDEMPOTENCY_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.App.IdempotencyWindow = d
		}
	}
	if v := os.Getenv("APP_EVENT_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.App.EventWorkers = i
		}
	}
	if v := os.Getenv("APP_EVENT_QUEUE_CAPACITY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.App.EventQueueCapacity = i
		}
	}
	if v := os.Getenv("APP_DEMO_PROFILE_ID"); v != "" {
		cfg.App.DemoProfileID = v
	}

	if v := viper.GetString("redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := viper.GetString("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = i
		}
	}
	if v := os.Getenv("REDIS_SYNC_CHANNEL"); v != "" {
		cfg.Redis.SyncChannel = v
	}

	if v := viper.GetString("catalog_brands_path"); v != "" {
		cfg.Catalog.BrandsPath = v
	}

	if v := viper.GetString("profile_secret"); v != "" {
		cfg.Security.ProfileSecret = v
	}
	if v := os.Getenv("PROFILE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Security.ProfileTTL = d
		}
	}

	if v := viper.GetString("cors_allow_origins"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORS.AllowOrigins = origins
		}
	}

	if cfg.App.MaxPageSize < cfg.App.DefaultPageSize {
		cfg.App.MaxPageSize = cfg.App.DefaultPageSize
	}
}

// UnmarshalJSON 自定义 JSON 解析，支持时间Duration字符串。
func (a *AppConfig) UnmarshalJSON(data []byte) error {
	type Alias AppConfig
	aux := &struct {
		SearchDelay       string `json:"search_delay"`
		IdempotencyWindow string `json:"idempotency_window"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.SearchDelay != "" {
		duration, err := time.ParseDuration(aux.SearchDelay)
		if err != nil {
			return fmt.Errorf("invalid search_delay format: %w", err)
		}
		a.SearchDelay = duration
	}
	if aux.IdempotencyWindow != "" {
		duration, err := time.ParseDuration(aux.IdempotencyWindow)
		if err != nil {
			return fmt.Errorf("invalid idempotency_window format: %w", err)
		}
		a.IdempotencyWindow = duration
	}
	return nil
}

// MarshalJSON 自定义 JSON 序列化，将 Duration 转为字符串。
func (a AppConfig) MarshalJSON() ([]byte, error) {
	type Alias AppConfig
	return json.Marshal(&struct {
		SearchDelay       string `json:"search_delay"`
		IdempotencyWindow string `json:"idempotency_window"`
		*Alias
	}{
		SearchDelay:       a.SearchDelay.String(),
		IdempotencyWindow: a.IdempotencyWindow.String(),
		Alias:             (*Alias)(&a),
	})
}

// UnmarshalJSON 支持 profile_ttl 使用 Duration 字符串。
func (s *SecurityConfig) UnmarshalJSON(data []byte) error {
	type Alias SecurityConfig
	aux := &struct {
		ProfileTTL string `json:"profile_ttl"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ProfileTTL != "" {
		duration, err := time.ParseDuration(aux.ProfileTTL)
		if err != nil {
			return fmt.Errorf("invalid profile_ttl format: %w", err)
		}
		s.ProfileTTL = duration
	}
	return nil
}

// MarshalJSON 将 profile_ttl 输出为 Duration 字符串。
func (s SecurityConfig) MarshalJSON() ([]byte, error) {
	type Alias SecurityConfig
	return json.Marshal(&struct {
		ProfileTTL string `json:"profile_ttl"`
		*Alias
	}{
		ProfileTTL: s.ProfileTTL.String(),
		Alias:      (*Alias)(&s),
	})
}
