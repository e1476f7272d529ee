package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/emberchain/emberd/domain"
	"github.com/emberchain/emberd/domain/miningmanager/mempool"
	"github.com/emberchain/emberd/infrastructure/config"
	"github.com/emberchain/emberd/infrastructure/db/database/ldb"
	"github.com/emberchain/emberd/infrastructure/logger"
	"github.com/emberchain/emberd/util/panics"
)

const (
	leveldbCacheSizeMiB = 256
	databaseDirname     = "db"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "MAIN")

	log.Infof("Starting emberd on %s", cfg.ActiveNetParams.Name)

	databasePath := filepath.Join(cfg.DataDir(), databaseDirname)
	err = os.MkdirAll(databasePath, 0700)
	if err != nil {
		return err
	}
	db, err := ldb.NewLevelDB(databasePath, leveldbCacheSizeMiB)
	if err != nil {
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := db.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	mempoolConfig := mempool.DefaultConfig(cfg.ActiveNetParams)
	mempoolConfig.MaximumPoolMass = cfg.MempoolMaximumMass
	mempoolConfig.MinimumRelayTransactionFee = cfg.MinimumRelayTransactionFee

	domainInstance, err := domain.New(cfg.ActiveNetParams, mempoolConfig, db)
	if err != nil {
		return err
	}

	virtualInfo, err := domainInstance.Consensus().GetVirtualInfo()
	if err != nil {
		return err
	}
	log.Infof("Chain state loaded, tip %s at height %d",
		virtualInfo.TipHash, virtualInfo.NextBlockHeight-1)

	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, os.Interrupt, syscall.SIGTERM)
	sig := <-interruptChannel
	log.Infof("Received signal (%s), shutting down...", sig)
	return nil
}
