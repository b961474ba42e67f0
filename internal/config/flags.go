package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DUALCHAT_ADDR.
const EnvPrefix = "DUALCHAT"

const (
	defaultAddr       = ":8080"
	defaultSessionTTL = 2 * time.Hour
)

var (
	Dev           bool
	LogPath       string
	Addr          string
	OpenAIBaseURL string
	Demo          bool
	SessionTTL    time.Duration
)

// RegisterFlags adds the flags shared by every command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool("dev", false, "Development mode")
	flags.String("log-path", "", "Directory to save the log file")
	flags.String("openai-base-url", "", "Base URL of an OpenAI-compatible API (default https://api.openai.com/v1)")
	flags.Bool("demo", false, "Stream canned responses instead of calling the provider")
	flags.String("addr", defaultAddr, "Address the local server listens on")
	flags.Duration("session-ttl", defaultSessionTTL, "Idle time before a session and its key are dropped")
}

// Init loads an optional .env file, then resolves every setting from flags
// and DUALCHAT_* variables. Flags set on the command line win.
func Init(flags *pflag.FlagSet) error {
	return load(viper.New(), flags, ".env")
}

func load(v *viper.Viper, flags *pflag.FlagSet, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	Dev = v.GetBool("dev")
	LogPath = v.GetString("log-path")
	OpenAIBaseURL = v.GetString("openai-base-url")
	Demo = v.GetBool("demo")
	Addr = v.GetString("addr")
	SessionTTL = v.GetDuration("session-ttl")

	if Addr == "" {
		return errors.New("addr must not be empty")
	}
	if SessionTTL <= 0 {
		return fmt.Errorf("session-ttl must be positive, got %s", SessionTTL)
	}
	return nil
}
