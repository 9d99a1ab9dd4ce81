package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/provider"
	"github.com/zhiqiangxu/kvtable/server"
	"github.com/zhiqiangxu/util/logger"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an embedded store with the Redis data model over qrpc",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			v := viper.New()
			v.SetEnvPrefix(EnvPrefix)
			v.AutomaticEnv()
			if err = v.BindPFlags(cmd.Flags()); err != nil {
				return
			}
			return runServe(v)
		},
	}
	cmd.Flags().String("addr", "localhost:8099", "listen address")
	cmd.Flags().String("dir", "/tmp/kvtable", "data directory")
	cmd.Flags().String("provider", provider.NameBadger, "storage engine, badger or leveldb")
	cmd.Flags().String("requirepass", "", "password required by AUTH")
	cmd.Flags().Int("databases", server.DefaultDatabases, "number of databases")
	return cmd
}

func runServe(v *viper.Viper) (err error) {
	kvdb, err := provider.New(v.GetString("provider"))
	if err != nil {
		return
	}

	addr := v.GetString("addr")
	s := server.New(
		addr,
		kvdb,
		server.Option{RequirePass: v.GetString("requirepass"), Databases: v.GetInt("databases")},
		kv.Option{Dir: v.GetString("dir")},
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	logger.Instance().Info("serving", zap.String("addr", addr), zap.String("provider", v.GetString("provider")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err = <-errCh:
		logger.Instance().Error("Start", zap.Error(err))
		return
	case sig := <-sigCh:
		logger.Instance().Info("shutting down", zap.String("signal", sig.String()))
	}

	err = s.Stop()
	return
}
