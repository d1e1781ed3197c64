package main

import (
	"encoding/binary"
	"time"

	"github.com/BertoldVdb/go-i2creading/registerpoll"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type config struct {
	Bus       int
	Address   uint16
	ByteOrder binary.ByteOrder
	PEC       bool
	Interval  time.Duration
	Channels  []registerpoll.ChannelConfig
}

func loadConfig(v *viper.Viper, filename string) (*config, error) {
	v.SetDefault("bus", 1)
	v.SetDefault("byte_order", "big")
	v.SetDefault("pec", false)
	v.SetDefault("interval", time.Second)

	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", filename)
	}

	return parseConfig(v)
}

func parseConfig(v *viper.Viper) (*config, error) {
	cfg := &config{
		Bus:      v.GetInt("bus"),
		PEC:      v.GetBool("pec"),
		Interval: v.GetDuration("interval"),
	}

	if !v.IsSet("address") {
		return nil, errors.New("no device address configured")
	}
	address := v.GetInt("address")
	if address < 0x03 || address > 0x77 {
		return nil, errors.Errorf("device address 0x%02x out of range", address)
	}
	cfg.Address = uint16(address)

	switch v.GetString("byte_order") {
	case "big":
		cfg.ByteOrder = binary.BigEndian
	case "little":
		cfg.ByteOrder = binary.LittleEndian
	default:
		return nil, errors.Errorf("unknown byte order %q", v.GetString("byte_order"))
	}

	if cfg.Interval <= 0 {
		return nil, errors.Errorf("invalid poll interval %s", cfg.Interval)
	}

	if err := v.UnmarshalKey("channels", &cfg.Channels); err != nil {
		return nil, errors.Wrap(err, "failed to parse channels")
	}
	for _, c := range cfg.Channels {
		if err := c.Validate(); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return cfg, nil
}
