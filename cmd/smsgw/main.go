// smsgw is a small command line front for the gateway client.
//
//	smsgw send -subject S -content C -to 0912345678,0922333444 [-at 20240101120000]
//	smsgw send-param -subject S -file msgs.json [-at 20240101120000]
//	smsgw status -batch <uuid> [-page 1]
//	smsgw journal [-limit 20]
//	smsgw serve [-addr :8080]
//
// Configuration comes from the environment and an optional .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rendau/smsgw/adapters/logger/zap"
)

const usage = `usage:
  smsgw send -subject S -content C -to LIST [-at yyyyMMddHHmmss]
  smsgw send-param -subject S -file FILE [-at yyyyMMddHHmmss]
  smsgw status -batch ID [-page N]
  smsgw journal [-limit N]
  smsgw serve [-addr :8080]`

func main() {
	conf, err := loadConf()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fail to load config:", err)
		os.Exit(1)
	}

	lg := zap.New(conf.LogLevel, conf.Debug)
	defer lg.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(ctx, conf, lg, os.Stdout)
	if err != nil {
		lg.Errorw("Fail to init app", err)
		os.Exit(1)
	}

	err = app.run(ctx, os.Args[1:])
	app.close()

	if err != nil {
		if isUsageErr(err) {
			fmt.Fprintln(os.Stderr, usage)
		}
		lg.Errorw("Command failed", err)
		lg.Sync()
		os.Exit(1)
	}
}
