package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Analisis de transcripts. Sin API key el extractor usa directamente el fallback.
	MiniMaxAPIKey  string `env:"MINIMAX_API_KEY"`
	MiniMaxBaseURL string `env:"MINIMAX_BASE_URL" envDefault:"https://api.minimax.io/v1"`
	MiniMaxModel   string `env:"MINIMAX_MODEL" envDefault:"MiniMax-M2.1"`

	// Transporte de voz (signed URLs de ElevenLabs).
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsAgentID string `env:"ELEVENLABS_AGENT_ID"`

	// Cache opcional de dashboards.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Alertas por email al personal cuando concern_level es high.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	AlertEmail   string `env:"ALERT_EMAIL"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
