// Server = http reporter + (optional) sqlite backed vault.
// All components are configured via a config file or env vars.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TEENet-io/cardano-utxo/logconfig"
	"github.com/TEENet-io/cardano-utxo/reporter"
	"github.com/TEENet-io/cardano-utxo/vault"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve selection and the vault over http",
		Long: `Start the http server. A vault is opened when VAULT_ADDRESS is set.
Press Ctrl-C to stop the server.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(NewViper(), rootOpts.ConfigFile)
			if err != nil {
				return err
			}
			if rootOpts.LogLevel != "" {
				cfg.LogLevel = rootOpts.LogLevel
			}
			return StartServerAndWait(cfg)
		},
	}
}

// Start the components of the server; they stop when ctx is done.
// Don't forget to call wg.Wait() in the main routine.
func StartServer(ctx context.Context, cfg *ServerConfig, wg *sync.WaitGroup) error {
	logconfig.ConfigFromString(cfg.LogLevel)

	// vault and reporter; storage is closed once both are done
	var running sync.WaitGroup

	var (
		v  *vault.Vault
		st *vault.SQLiteStorage
	)
	if cfg.VaultAddress != "" {
		var err error
		st, err = vault.NewSQLiteStorage(ctx, cfg.DbFilePath, cfg.VaultAddress)
		if err != nil {
			return fmt.Errorf("cannot create vault storage: %w", err)
		}
		v = vault.NewVault(cfg.VaultAddress, st, &vault.Config{
			LockTimeout:        cfg.LockTimeout,
			FrequencyToRelease: cfg.ReleaseFrequency,
		})
		logger.WithFields(logger.Fields{
			"address": cfg.VaultAddress,
			"db":      cfg.DbFilePath,
		}).Info("vault opened")

		running.Add(1)
		go func() {
			defer running.Done()
			if err := v.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("vault stopped: %v", err)
			}
		}()
	}

	r := reporter.NewHttpReporter(cfg.HttpIp, cfg.HttpPort, v)
	running.Add(1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer running.Done()
		err := r.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http reporter stopped: %v", err)
		}
	}()

	if st != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := closeAfter(&running, st); err != nil {
				logger.Errorf("cannot close vault storage: %v", err)
			}
		}()
	}

	return nil
}

// closeAfter closes c once every user tracked by running is done.
func closeAfter(running *sync.WaitGroup, c io.Closer) error {
	running.Wait()
	return c.Close()
}

// Create, then start the server and wait.
// Press Ctrl-C to kill the server.
func StartServerAndWait(cfg *ServerConfig) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up a signal channel to listen for Ctrl-C (SIGINT) or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Infof("received signal: %v, cancelling context...", sig)
		cancel()
	}()

	var wg sync.WaitGroup
	if err := StartServer(ctx, cfg, &wg); err != nil {
		return err
	}

	wg.Wait()
	return nil
}
