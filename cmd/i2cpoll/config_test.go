package main

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func parse(t *testing.T, text string) (*config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("bus", 1)
	v.SetDefault("byte_order", "big")
	v.SetDefault("interval", time.Second)
	if err := v.ReadConfig(strings.NewReader(text)); err != nil {
		t.Fatal("ReadConfig failed", err)
	}
	return parseConfig(v)
}

func TestParseConfig(t *testing.T) {
	cfg, err := parse(t, `
bus = 2
address = 104
byte_order = "little"
pec = true
interval = "250ms"

[[channels]]
name = "accel_x"
register = 59
type = "int16"

[[channels]]
name = "accel_y"
register = 61
type = "int16"
`)
	if err != nil {
		t.Fatal("parseConfig failed", err)
	}

	if cfg.Bus != 2 || cfg.Address != 0x68 || !cfg.PEC {
		t.Error("Wrong device settings", cfg)
	}
	if cfg.ByteOrder != binary.LittleEndian {
		t.Error("Wrong byte order")
	}
	if cfg.Interval != 250*time.Millisecond {
		t.Error("Wrong interval", cfg.Interval)
	}
	if len(cfg.Channels) != 2 {
		t.Fatal("Wrong channel count", cfg.Channels)
	}
	if cfg.Channels[1].Name != "accel_y" || cfg.Channels[1].Register != 0x3D || cfg.Channels[1].Type != "int16" {
		t.Error("Wrong channel", cfg.Channels[1])
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parse(t, `address = 72`)
	if err != nil {
		t.Fatal("parseConfig failed", err)
	}
	if cfg.Bus != 1 || cfg.ByteOrder != binary.BigEndian || cfg.Interval != time.Second || cfg.PEC {
		t.Error("Defaults not applied", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, text := range []string{
		`bus = 1`,
		`address = 200`,
		"address = 72\nbyte_order = \"middle\"",
		"address = 72\ninterval = \"-1s\"",
		"address = 72\n[[channels]]\nname = \"x\"\nregister = 315\ntype = \"int16\"",
		"address = 72\n[[channels]]\nname = \"x\"\nregister = -1\ntype = \"int16\"",
	} {
		if _, err := parse(t, text); err == nil {
			t.Error("Invalid config accepted:", text)
		}
	}
}
