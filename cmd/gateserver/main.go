package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/order-target-gate/cmd/flags"
	"github.com/ruteri/order-target-gate/gate"
	"github.com/ruteri/order-target-gate/httpserver"
	"github.com/ruteri/order-target-gate/storage"
)

var cliFlags = append([]cli.Flag{
	flags.ListenAddrFlag,
	flags.StateDirFlag,
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "gate-server",
		Usage: "Serve the order target authorization gate API",
		Flags: cliFlags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String(flags.ListenAddrFlag.Name)
			stateDir := cCtx.String(flags.StateDirFlag.Name)

			logger := flags.SetupLogger(cCtx)
			cfg := flags.ConfigureServer(cCtx, logger, listenAddr)

			registry := gate.NewRegistry(logger, gate.NewSlogSink(logger))

			var store *storage.FileStore
			if stateDir != "" {
				var err error
				store, err = storage.NewFileStore(stateDir, logger)
				if err != nil {
					logger.Error("Failed to create state store", "err", err)
					return err
				}

				records, err := store.Load(context.Background())
				if err != nil {
					logger.Error("Failed to load order snapshot", "err", err)
					return err
				}
				registry.Restore(records)
				logger.Info("Order state restored", "records", len(records), "store", store.LocationURI())
			}

			handler := httpserver.NewHandler(registry, logger)
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()

			if store != nil {
				if err := store.Save(context.Background(), registry.Snapshot()); err != nil {
					logger.Error("Failed to save order snapshot", "err", err)
					return err
				}
				logger.Info("Order state saved")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
