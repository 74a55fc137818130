package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/keymint/nft"
	"github.com/MixinNetwork/keymint/server"
	"github.com/MixinNetwork/keymint/store"
	"github.com/MixinNetwork/mixin/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bp := flag.String("d", "~/.mixin/keymint/data", "database directory path")
	cp := flag.String("c", "~/.mixin/keymint/config.toml", "configuration file path")
	lv := flag.Int("l", logger.INFO, "log level")
	flag.Parse()

	logger.SetLevel(*lv)

	conf, err := gate.Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}

	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ledger := nft.NewLedger(db, conf.Token.URI)
	engine, err := gate.BuildEngine(ctx, db, ledger, conf.Authority())
	if err != nil {
		panic(err)
	}
	engine.AddWorker(&MintWorker{ledger: ledger})

	srv := server.NewHTTPServer(engine, ledger)
	err = srv.Run(ctx, conf.HTTP.Listen)
	if err != nil {
		panic(err)
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	usr, _ := user.Current()
	return filepath.Join(usr.HomeDir, p[2:])
}
