package providers

import (
	"coursetrack/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "CourseTrack"

var DefaultVideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".flv", ".wmv", ".webm", ".m4v"}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("backup.interval", time.Hour)
	v.SetDefault("backup.keep", 10)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("scanner.extensions", DefaultVideoExtensions)
	v.SetDefault("scanner.ffprobePath", "ffprobe")

	_ = v.BindEnv("logger.level", "CT_LOG_LEVEL")
	_ = v.BindEnv("persistence.filePath", "CT_DATA_FILE")
	_ = v.BindEnv("backup.interval", "CT_BACKUP_INTERVAL")
	_ = v.BindEnv("cache.enabled", "CT_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "CT_CACHE_SIZE")
	_ = v.BindEnv("webServer.port", "CT_LISTEN_PORT")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
