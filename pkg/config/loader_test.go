package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/config"
)

type TestConfigDefault struct {
	TestString string `env:"TEST_STRING_DEFAULT" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_DEFAULT" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_DEFAULT" envDefault:"true"`
}

type TestConfigSuccess struct {
	TestString string `env:"TEST_STRING_SUCCESS" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_SUCCESS" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_SUCCESS" envDefault:"true"`
}

type TestConfigSingleton struct {
	TestString string `env:"TEST_STRING_SINGLETON" envDefault:"default_value"`
}

type RequiredConfig struct {
	Required string `env:"REQUIRED_VALUE,required"`
}

var errTooShort = errors.New("secret too short")

type ValidatedConfig struct {
	Secret string `env:"TEST_VALIDATED_SECRET"`
}

func (c ValidatedConfig) Validate() error {
	if len(c.Secret) < 8 {
		return errTooShort
	}
	return nil
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_STRING_SUCCESS", "test_value")
	t.Setenv("TEST_INT_SUCCESS", "100")
	t.Setenv("TEST_BOOL_SUCCESS", "false")

	var cfg TestConfigSuccess
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "test_value", cfg.TestString)
	assert.Equal(t, 100, cfg.TestInt)
	assert.False(t, cfg.TestBool)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_STRING_DEFAULT")
	os.Unsetenv("TEST_INT_DEFAULT")
	os.Unsetenv("TEST_BOOL_DEFAULT")

	var cfg TestConfigDefault
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "default_value", cfg.TestString)
	assert.Equal(t, 42, cfg.TestInt)
	assert.True(t, cfg.TestBool)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("REQUIRED_VALUE")

	var cfg RequiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	// failures are not cached
	t.Setenv("REQUIRED_VALUE", "now-set")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "now-set", cfg.Required)
}

func TestLoad_Validate(t *testing.T) {
	t.Setenv("TEST_VALIDATED_SECRET", "short")

	var cfg ValidatedConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, errTooShort)
	assert.Empty(t, cfg.Secret, "target untouched on failure")

	t.Setenv("TEST_VALIDATED_SECRET", "long-enough")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "long-enough", cfg.Secret)
}

func TestLoad_Singleton(t *testing.T) {
	t.Setenv("TEST_STRING_SINGLETON", "first_value")

	var first TestConfigSingleton
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_STRING_SINGLETON", "second_value")

	var second TestConfigSingleton
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first_value", second.TestString)

	var reloaded TestConfigSingleton
	require.NoError(t, config.ForceReloadConfig(&reloaded))
	assert.Equal(t, "second_value", reloaded.TestString)

	var cached TestConfigSingleton
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "second_value", cached.TestString)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *TestConfigSuccess
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	assert.ErrorIs(t, config.ForceReloadConfig(cfg), config.ErrNilPointer)
}
