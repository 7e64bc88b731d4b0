package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Report ReportConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	report, err := loadReportConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Report: report}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	BaseURL        string
	Region         string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	StreamResponse bool
}

// ReportConfig 描述报告生成的策略参数。窗口与前置条件都是可调策略，
// 而非经过验证的临床规则。
type ReportConfig struct {
	// TurnWindow 限制进入提示词的最近用户消息条数。
	TurnWindow int
	// MoodWindow 限制进入提示词的最近心情记录条数。
	MoodWindow int
	// MinUserTurns 与空心情日记一起构成"数据不足"的判断阈值。
	MinUserTurns int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		// 偏高的采样温度让回复更有"人味"。
		val := 0.9
		temperature = &val
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}
	if topP == nil {
		val := 0.95
		topP = &val
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:      strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:      strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:          strings.TrimSpace(os.Getenv("Model")),
		BaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		StreamResponse: stream,
	}, nil
}

func loadReportConfig() (ReportConfig, error) {
	cfg := DefaultReportConfig()

	if v, err := parseOptionalIntEnv("REPORT_TURN_WINDOW"); err != nil {
		return ReportConfig{}, err
	} else if v != nil && *v > 0 {
		cfg.TurnWindow = *v
	}

	if v, err := parseOptionalIntEnv("REPORT_MOOD_WINDOW"); err != nil {
		return ReportConfig{}, err
	} else if v != nil && *v > 0 {
		cfg.MoodWindow = *v
	}

	if v, err := parseOptionalIntEnv("REPORT_MIN_USER_TURNS"); err != nil {
		return ReportConfig{}, err
	} else if v != nil && *v >= 0 {
		cfg.MinUserTurns = *v
	}

	return cfg, nil
}

// DefaultReportConfig 返回报告策略的默认值。
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		TurnWindow:   10,
		MoodWindow:   5,
		MinUserTurns: 2,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
