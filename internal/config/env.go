package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DBEnv struct {
	DSN      string `envconfig:"DB_DSN"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS"`
	Host     string `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	Name     string `envconfig:"DB_NAME" default:"fleet"`
}

type LogEnv struct {
	Level      string `envconfig:"LOG_LEVEL"        default:"info"`
	Format     string `envconfig:"LOG_FORMAT"       default:"text"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB"  default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS"  default:"7"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

// ReportEnv describes the printed page of trip reports.
type ReportEnv struct {
	PageSize        string  `envconfig:"REPORT_PAGE_SIZE"         default:"A4"`
	Orientation     string  `envconfig:"REPORT_ORIENTATION"       default:"L"`
	MarginMM        float64 `envconfig:"REPORT_MARGIN_MM"         default:"10"`
	FooterMM        float64 `envconfig:"REPORT_FOOTER_MM"         default:"8"`
	TemplateWidthPX float64 `envconfig:"REPORT_TEMPLATE_WIDTH_PX" default:"1200"`
	FontPath        string  `envconfig:"REPORT_FONT_PATH"`
}

type Env struct {
	AppAddr     string   `envconfig:"APP_ADDR" default:":8080"`
	GinMode     string   `envconfig:"GIN_MODE"`
	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	DBEnv
	LogEnv
	ReportEnv
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, err
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	env.GinMode = strings.TrimSpace(env.GinMode)
	env.Orientation = strings.ToUpper(strings.TrimSpace(env.Orientation))
	return env, nil
}
