package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/client"
	"github.com/zhiqiangxu/kvtable/option"
	"github.com/zhiqiangxu/kvtable/resp"
)

// EnvPrefix for environment variables, KVTABLE_ADDRESS and so on
const EnvPrefix = "KVTABLE"

const (
	backendRESP = "resp"
	backendQRPC = "qrpc"
)

// tableConfig is what the scan and explain commands read from flags, env and config file
type tableConfig struct {
	v *viper.Viper
}

func addTableFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file with the table options")
	fs.String("backend", backendRESP, "protocol of the store, resp or qrpc")
	fs.Duration("connect-timeout", kvtable.DefaultConnectTimeout, "timeout for connecting to the store")
	for _, ctx := range []option.Context{option.ContextServer, option.ContextUserMapping, option.ContextTable} {
		for _, name := range option.ValidNames(ctx) {
			fs.String(name, "", fmt.Sprintf("%s option %s", ctx, name))
		}
	}
}

func newTableConfig(fs *pflag.FlagSet) (c *tableConfig, err error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err = v.BindPFlags(fs); err != nil {
		return
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("failed to read config %s: %w", file, err)
			return
		}
	}

	c = &tableConfig{v: v}
	return
}

func (c *tableConfig) defs(ctx option.Context) (defs []option.Def) {
	for _, name := range option.ValidNames(ctx) {
		if value := c.v.GetString(name); value != "" {
			defs = append(defs, option.Def{Name: name, Value: value})
		}
	}
	return
}

// TableOptions resolves the table, server and user mapping options
func (c *tableConfig) TableOptions() (kvtable.TableOptions, error) {
	return option.Resolve(
		c.defs(option.ContextTable),
		c.defs(option.ContextServer),
		c.defs(option.ContextUserMapping),
	)
}

// Dialer for the configured backend
func (c *tableConfig) Dialer() (d kvtable.Dialer, err error) {
	switch backend := c.v.GetString("backend"); backend {
	case backendRESP:
		d = &resp.Dialer{ConnectTimeout: c.v.GetDuration("connect-timeout")}
	case backendQRPC:
		var option client.Option
		option.QrpcConfig.DialTimeout = c.v.GetDuration("connect-timeout")
		d = &client.Dialer{Option: option}
	default:
		err = fmt.Errorf("unknown backend %q, must be %s or %s", backend, backendRESP, backendQRPC)
	}
	return
}
