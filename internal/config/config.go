package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App             AppConfig
	Server          ServerConfig
	AI              AIConfig
	Chat            ChatConfig
	ConversationLog ConversationLogConfig
	Redis           RedisConfig
	Database        DatabaseConfig
	Admin           AdminConfig
	Persona         PersonaConfig
	Quota           QuotaConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name  string
	Debug bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string
	Port           int
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// AIConfig AI配置
type AIConfig struct {
	Provider    string // gemini, openai, deepseek
	Mode        string // unary, stream
	Timeout     int    // 秒
	Temperature float32
	Gemini      ProviderConfig
	OpenAI      ProviderConfig
	DeepSeek    ProviderConfig
}

// ProviderConfig 单个模型供应商配置
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ChatConfig 对话网关配置
type ChatConfig struct {
	MaxMessageLength int
	MaxHistory       int
	FallbackReply    string
}

// ConversationLogConfig 对话日志配置
type ConversationLogConfig struct {
	Backend      string // redis, postgres, none
	Key          string
	MaxEntries   int
	WriteTimeout int // 秒
	MaxInFlight  int
}

// RedisConfig Redis配置
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// AdminConfig 管理接口配置
type AdminConfig struct {
	ConversationsSecret string // 明文或 bcrypt 哈希
}

// PersonaConfig 人设文档配置
type PersonaConfig struct {
	Path string
}

// QuotaConfig 会话配额配置
type QuotaConfig struct {
	Enabled     bool
	MaxMessages int
	Window      time.Duration
	TokenSecret string
}

// envAliases 原部署使用的环境变量名
var envAliases = map[string][]string{
	"ai.gemini.apiKey":          {"GEMINI_API_KEY"},
	"ai.openai.apiKey":          {"OPENAI_API_KEY"},
	"ai.deepseek.apiKey":        {"DEEPSEEK_API_KEY"},
	"redis.url":                 {"REDIS_URL", "UPSTASH_REDIS_URL"},
	"admin.conversationsSecret": {"CONVERSATIONS_SECRET"},
	"quota.tokenSecret":         {"SESSION_TOKEN_SECRET"},
	"server.port":               {"PORT"},
}

// Load 加载配置
// path 为空或文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	// 本地开发时从 .env 读取，文件不存在不是错误
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		args := append([]string{key, "PORTFOLIO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Configured Redis 是否配置
func (c *RedisConfig) Configured() bool {
	return c.URL != "" || c.Host != ""
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Active 返回当前选中的供应商配置
func (c *AIConfig) Active() ProviderConfig {
	switch c.Provider {
	case "openai":
		return c.OpenAI
	case "deepseek":
		return c.DeepSeek
	default:
		return c.Gemini
	}
}

// TimeoutDuration 模型调用超时
func (c *AIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "product-portfolio")
	v.SetDefault("app.debug", false)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 90)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	// AI
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.mode", "unary")
	v.SetDefault("ai.timeout", 45)
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.gemini.apiKey", "")
	v.SetDefault("ai.gemini.baseUrl", "")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.openai.apiKey", "")
	v.SetDefault("ai.openai.baseUrl", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.deepseek.apiKey", "")
	v.SetDefault("ai.deepseek.baseUrl", "https://api.deepseek.com/v1")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")

	// Chat
	v.SetDefault("chat.maxMessageLength", 500)
	v.SetDefault("chat.maxHistory", 30)
	v.SetDefault("chat.fallbackReply", "I'm not sure how to answer that. Could you try rephrasing your question?")

	// ConversationLog
	v.SetDefault("conversationLog.backend", "redis")
	v.SetDefault("conversationLog.key", "portfolio:conversations")
	v.SetDefault("conversationLog.maxEntries", 500)
	v.SetDefault("conversationLog.writeTimeout", 5)
	v.SetDefault("conversationLog.maxInFlight", 64)

	// Redis
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.maxLifetime", 300)

	// Admin / Persona
	v.SetDefault("admin.conversationsSecret", "")
	v.SetDefault("persona.path", "")

	// Quota
	v.SetDefault("quota.enabled", true)
	v.SetDefault("quota.maxMessages", 15)
	v.SetDefault("quota.window", 24*time.Hour)
	v.SetDefault("quota.tokenSecret", "")
}
