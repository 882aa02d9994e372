package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt("capacity"), DefaultCapacity)
	is.Equal(c.GetInt("max-extra-tubes"), DefaultMaxExtraTubes)
	is.Equal(c.GetString("method"), DefaultMethod)
	is.Equal(c.GetBool("debug"), false)
}

func TestFlagsOverride(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--capacity", "6", "--method", "fastest", "--debug"}))
	is.Equal(c.GetInt("capacity"), 6)
	is.Equal(c.GetString("method"), "fastest")
	is.Equal(c.GetBool("debug"), true)
}

func TestEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("POURBOT_MAX_EXTRA_TUBES", "5")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt("max-extra-tubes"), 5)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))
	c.Set("method", "shortest")
	is.Equal(c.GetString("method"), "shortest")
}
