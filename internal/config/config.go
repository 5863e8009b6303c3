// ABOUTME: Player configuration loading
// ABOUTME: Viper-backed config file with defaults; flags override at the caller
package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/UG40A/SimpleProtocolPlayer/internal/pipeline"
	"github.com/spf13/viper"
)

// Config holds everything the player binary needs to start a stream.
type Config struct {
	Server          string
	Port            int
	SampleRate      int
	Stereo          bool
	BufferMs        int
	Retry           bool
	PerformanceMode bool
	UseMinBuffer    bool
	Transport       string // "tcp" or "ws"
	LogFile         string
	NoTUI           bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", "")
	// module-simple-protocol-tcp's default listen port
	v.SetDefault("port", 4711)
	v.SetDefault("samplerate", pipeline.DefaultSampleRate)
	v.SetDefault("stereo", true)
	v.SetDefault("bufferms", pipeline.DefaultBufferMs)
	v.SetDefault("retry", false)
	v.SetDefault("performancemode", false)
	v.SetDefault("useminbuffer", false)
	v.SetDefault("transport", "tcp")
	v.SetDefault("logfile", "simple-protocol-player.log")
	v.SetDefault("notui", false)
}

// Load reads path into a Config. An empty path or a missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			log.Printf("no config file at %s, using defaults", path)
		}
	}

	cfg := Config{
		Server:          v.GetString("server"),
		Port:            v.GetInt("port"),
		SampleRate:      v.GetInt("samplerate"),
		Stereo:          v.GetBool("stereo"),
		BufferMs:        v.GetInt("bufferms"),
		Retry:           v.GetBool("retry"),
		PerformanceMode: v.GetBool("performancemode"),
		UseMinBuffer:    v.GetBool("useminbuffer"),
		Transport:       v.GetString("transport"),
		LogFile:         v.GetString("logfile"),
		NoTUI:           v.GetBool("notui"),
	}

	if cfg.Transport != "tcp" && cfg.Transport != "ws" {
		return Config{}, fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	return cfg, nil
}
