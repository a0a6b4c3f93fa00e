package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvConfigFile       = "env_config.json"
	ExecutionConfigFile = "execution_config.json"
)

// keyDelim replaces viper's "." so environment names such as "qa.eu" stay
// one key.
const keyDelim = "::"

// Provider supplies the two test configuration documents.
type Provider interface {
	EnvironmentConfig() (*EnvironmentConfig, error)
	ExecutionConfig() (*ExecutionConfig, error)
}

// Reader reads the JSON documents from a directory. Every call goes back to
// disk; use Snapshot when one loaded view must be shared.
type Reader struct {
	dir string
}

func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

func setExecutionDefaults(v *viper.Viper) {
	v.SetDefault("browser", "chromium")
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", 0)
	v.SetDefault("viewport"+keyDelim+"width", 1280)
	v.SetDefault("viewport"+keyDelim+"height", 720)
	v.SetDefault("retries", 0)
	v.SetDefault("parallel_workers", 1)
	v.SetDefault("trace", string(ModeOff))
	v.SetDefault("video", string(ModeOff))
	v.SetDefault("artifacts_dir", "test-results")
}

func (r *Reader) read(name string, defaults func(*viper.Viper)) (*viper.Viper, error) {
	path := filepath.Join(r.dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if defaults != nil {
		defaults(v)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return v, nil
}

func (r *Reader) EnvironmentConfig() (*EnvironmentConfig, error) {
	v, err := r.read(EnvConfigFile, nil)
	if err != nil {
		return nil, err
	}
	if err := checkEnvironmentNames(filepath.Join(r.dir, EnvConfigFile)); err != nil {
		return nil, err
	}

	var cfg EnvironmentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EnvConfigFile, err)
	}
	if cfg.Environments == nil {
		cfg.Environments = map[string]Environment{}
	}
	return &cfg, nil
}

func (r *Reader) ExecutionConfig() (*ExecutionConfig, error) {
	v, err := r.read(ExecutionConfigFile, setExecutionDefaults)
	if err != nil {
		return nil, err
	}

	var cfg ExecutionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ExecutionConfigFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkEnvironmentNames rejects names that differ only in case. Viper folds
// keys to lower case, so such names would otherwise merge silently.
func checkEnvironmentNames(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var doc struct {
		Environments map[string]json.RawMessage `json:"environments"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", EnvConfigFile, err)
	}

	seen := make(map[string]string, len(doc.Environments))
	for name := range doc.Environments {
		folded := strings.ToLower(name)
		if other, ok := seen[folded]; ok {
			return fmt.Errorf("%w: environments %q and %q differ only in case", ErrInvalidEnvironmentConfig, other, name)
		}
		seen[folded] = name
	}
	return nil
}

func (r *Reader) environment(env string) (Environment, error) {
	cfg, err := r.EnvironmentConfig()
	if err != nil {
		return Environment{}, err
	}
	return cfg.Environment(env)
}

// BaseURL returns the base_url of env, or of default_env when env is empty.
func (r *Reader) BaseURL(env string) (string, error) {
	e, err := r.environment(env)
	if err != nil {
		return "", err
	}
	if e.BaseURL == "" {
		return "", fmt.Errorf("%w for environment %q", ErrMissingBaseURL, env)
	}
	return e.BaseURL, nil
}

func (r *Reader) Credentials(env string) (Credentials, error) {
	e, err := r.environment(env)
	if err != nil {
		return Credentials{}, err
	}
	return e.Credentials, nil
}

func (r *Reader) Timeouts(env string) (Timeouts, error) {
	e, err := r.environment(env)
	if err != nil {
		return Timeouts{}, err
	}
	return e.Timeouts, nil
}

func (r *Reader) Browser() (string, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return "", err
	}
	return cfg.Browser, nil
}

func (r *Reader) IsHeadless() (bool, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return false, err
	}
	return cfg.Headless, nil
}

func (r *Reader) SlowMo() (int, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return 0, err
	}
	return cfg.SlowMo, nil
}

func (r *Reader) Viewport() (Viewport, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return Viewport{}, err
	}
	return cfg.Viewport, nil
}

func (r *Reader) ArtifactsDir() (string, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return "", err
	}
	return cfg.ArtifactsDir, nil
}

func (r *Reader) Retries() (int, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return 0, err
	}
	return cfg.Retries, nil
}

func (r *Reader) ParallelWorkers() (int, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return 0, err
	}
	return cfg.ParallelWorkers, nil
}

func (r *Reader) Trace() (ArtifactMode, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return "", err
	}
	return cfg.Trace, nil
}

func (r *Reader) Video() (ArtifactMode, error) {
	cfg, err := r.ExecutionConfig()
	if err != nil {
		return "", err
	}
	return cfg.Video, nil
}

// Static is a Provider over documents loaded once. It is safe to share
// between scenario workers as long as nobody mutates the returned values.
type Static struct {
	env  *EnvironmentConfig
	exec *ExecutionConfig
}

func NewStatic(env *EnvironmentConfig, exec *ExecutionConfig) *Static {
	return &Static{env: env, exec: exec}
}

// Snapshot loads both documents from p once.
func Snapshot(p Provider) (*Static, error) {
	env, err := p.EnvironmentConfig()
	if err != nil {
		return nil, err
	}
	exec, err := p.ExecutionConfig()
	if err != nil {
		return nil, err
	}
	return NewStatic(env, exec), nil
}

func (s *Static) EnvironmentConfig() (*EnvironmentConfig, error) {
	return s.env, nil
}

func (s *Static) ExecutionConfig() (*ExecutionConfig, error) {
	return s.exec, nil
}
