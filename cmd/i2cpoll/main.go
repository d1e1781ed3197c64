package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BertoldVdb/go-i2creading/linux-pio/i2c"
	"github.com/BertoldVdb/go-i2creading/logrusconfig"
	"github.com/BertoldVdb/go-i2creading/registerpoll"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()

	app.Name = "i2cpoll"
	app.Usage = "periodically read a block of registers from an I2C device"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "./i2cpoll.toml",
			Usage: "load configuration from `FILE`",
		},
		logrusconfig.LevelFlag,
	}

	app.Action = poll

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func poll(c *cli.Context) error {
	log := logrusconfig.GetLogger(os.Stderr, logrusconfig.LevelFromContext(c), "i2cpoll")

	cfg, err := loadConfig(viper.New(), c.String("config"))
	if err != nil {
		return err
	}

	bus, err := i2c.OpenBus(cfg.Bus)
	if err != nil {
		return errors.Wrap(err, "failed to open bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			log.WithError(err).Debug("Closing bus failed")
		}
	}()

	dev := bus.GetDevice(cfg.Address)
	dev.SetByteOrder(cfg.ByteOrder)
	dev.EnablePEC(cfg.PEC)

	var channels []registerpoll.Channel
	for _, cc := range cfg.Channels {
		channel, err := registerpoll.ChannelFor(dev, cc)
		if err != nil {
			return err
		}
		channels = append(channels, channel)
	}

	poller, err := registerpoll.New(dev, log, channels...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithFields(logrus.Fields{
		"bus":      cfg.Bus,
		"address":  fmt.Sprintf("0x%02x", cfg.Address),
		"channels": len(channels),
	}).Info("Device opened")

	return poller.Run(ctx, cfg.Interval, func(samples []registerpoll.Sample) {
		for _, s := range samples {
			log.WithFields(logrus.Fields{
				"channel":  s.Name,
				"register": fmt.Sprintf("0x%02x", s.Register),
				"value":    s.Value,
			}).Info("Sample")
		}
	})
}
