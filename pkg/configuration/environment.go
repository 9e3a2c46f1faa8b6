package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/treesync/pkg/logging"
)

const Production = "production"

const (
	FilterModeSubstring = "substring"
	FilterModeFuzzy     = "fuzzy"
)

// LoadEnv loads the env files that exist and reports how many were found.
// Variables already present in the process environment win.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type PrometheusOptions struct {
	Enabled  bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Textfile string `env:"PROMETHEUS_TEXTFILE"`
}

type TreeOptions struct {
	FilterMode   string `env:"TREE_FILTER_MODE" envDefault:"substring" validate:"oneof=substring fuzzy"`
	ExpandDepth  int    `env:"TREE_EXPAND_DEPTH" envDefault:"1" validate:"gte=0,lte=32"`
	CacheEnabled bool   `env:"TREE_CACHE_ENABLED" envDefault:"true"`
	SearchLimit  int    `env:"TREE_SEARCH_LIMIT" envDefault:"20" validate:"gte=1,lte=500"`
}

type Configuration struct {
	Tree       TreeOptions
	Prometheus PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development" validate:"oneof=development staging production test"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error" validate:"oneof=silent error warn info debug"`
	LogPath          string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Fuzzy() bool {
	return c.Tree.FilterMode == FilterModeFuzzy
}

// Load builds a Configuration from the environment after applying envFiles.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return errors.Wrap(err, "load env files")
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, "parse environment")
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Tree.FilterMode = strings.ToLower(strings.TrimSpace(c.Tree.FilterMode))
	if err := c.Validate(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s=%v (rule %s=%s)", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param())
		}
		return err
	}
	if c.Prometheus.Textfile != "" && !c.Prometheus.Enabled {
		return fmt.Errorf("PROMETHEUS_TEXTFILE requires PROMETHEUS_METRICS_ENABLED=true")
	}
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
