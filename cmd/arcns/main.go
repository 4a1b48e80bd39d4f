package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/arc-name-service/cmd/flags"
	"github.com/ruteri/arc-name-service/controller"
	"github.com/ruteri/arc-name-service/gateway"
	"github.com/ruteri/arc-name-service/httpserver"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/ruteri/arc-name-service/metrics"
	"github.com/ruteri/arc-name-service/registry"
)

var errMissingName = errors.New("a name is required")

// node holds everything built from the global flags.
type node struct {
	log      *slog.Logger
	gateway  *gateway.Gateway
	provider interfaces.CapabilityProvider
	client   *ethclient.Client
}

func setup(cCtx *cli.Context) (*node, error) {
	logger := flags.SetupLogger(cCtx)

	cfg, err := flags.LoadConfig(cCtx)
	if err != nil {
		logger.Error("Invalid configuration", "err", err)
		return nil, err
	}

	logger.Debug("Connecting to Ethereum RPC", "address", cfg.RPCEndpoint)
	ethClient, err := ethclient.DialContext(cCtx.Context, cfg.RPCEndpoint)
	if err != nil {
		logger.Error("Failed to dial RPC", "err", err)
		return nil, err
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = ethClient.ChainID(cCtx.Context)
		if err != nil {
			ethClient.Close()
			logger.Error("Failed to query chain id", "err", err)
			return nil, err
		}
	}

	gw, err := gateway.New(registry.NewRegistryFactory(cfg.ContractAddress), ethClient, cfg.ConfirmTimeout, logger)
	if err != nil {
		ethClient.Close()
		return nil, err
	}

	provider, err := flags.WalletFromFlags(cCtx, chainID, ethClient)
	if err != nil {
		ethClient.Close()
		logger.Error("Invalid wallet configuration", "err", err)
		return nil, err
	}
	if provider == nil {
		logger.Debug("No wallet configured, registration is unavailable")
	}

	logger.Debug("Name service client ready", "contract", cfg.ContractAddress.Hex(), "chainID", chainID)

	return &node{
		log:      logger,
		gateway:  gw,
		provider: provider,
		client:   ethClient,
	}, nil
}

// printOutcome writes the outcome line and turns failures into a non-zero exit.
func printOutcome(outcome interfaces.Outcome) error {
	if outcome.Kind == interfaces.OutcomeFailed {
		return cli.Exit(outcome.String(), 1)
	}
	fmt.Println(outcome.String())
	return nil
}

// runRemote sends the operation to a running arcns server instead of the
// ledger.
func runRemote(ctx context.Context, call func(context.Context, string) (*httpserver.OutcomeResponse, error), raw string) error {
	resp, err := call(ctx, raw)
	if err != nil {
		var errResp *httpserver.ErrorResponse
		if errors.As(err, &errResp) && errResp.Outcome != nil {
			return cli.Exit(errResp.Outcome.Message, 1)
		}
		return cli.Exit("Error: "+err.Error(), 1)
	}
	fmt.Println(resp.Message)
	return nil
}

var registerCommand = &cli.Command{
	Name:      "register",
	Usage:     "Register a name to the wallet account",
	ArgsUsage: "<name>",
	Flags:     append([]cli.Flag{flags.ServerURLFlag}, flags.WalletFlags...),
	Action: func(cCtx *cli.Context) error {
		raw := cCtx.Args().First()
		if raw == "" {
			return cli.Exit("Error: "+errMissingName.Error(), 2)
		}
		if serverURL := cCtx.String(flags.ServerURLFlag.Name); serverURL != "" {
			return runRemote(cCtx.Context, httpserver.NewClient(serverURL).Register, raw)
		}

		n, err := setup(cCtx)
		if err != nil {
			return err
		}
		defer n.client.Close()

		c := controller.New(controller.OpRegister, n.gateway, n.provider, nil, n.log)
		outcome, _ := c.RunRegister(cCtx.Context, raw)
		return printOutcome(outcome)
	},
}

var resolveCommand = &cli.Command{
	Name:      "resolve",
	Usage:     "Look up the address holding a name",
	ArgsUsage: "<name>",
	Flags:     []cli.Flag{flags.ServerURLFlag},
	Action: func(cCtx *cli.Context) error {
		raw := cCtx.Args().First()
		if raw == "" {
			return cli.Exit("Error: "+errMissingName.Error(), 2)
		}
		if serverURL := cCtx.String(flags.ServerURLFlag.Name); serverURL != "" {
			return runRemote(cCtx.Context, httpserver.NewClient(serverURL).Resolve, raw)
		}

		n, err := setup(cCtx)
		if err != nil {
			return err
		}
		defer n.client.Close()

		c := controller.New(controller.OpResolve, n.gateway, nil, nil, n.log)
		outcome, _ := c.RunResolve(cCtx.Context, raw)
		return printOutcome(outcome)
	},
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the name service HTTP API",
	Flags: append(append([]cli.Flag{}, flags.ServerFlags...), flags.WalletFlags...),
	Action: func(cCtx *cli.Context) error {
		n, err := setup(cCtx)
		if err != nil {
			return err
		}
		defer n.client.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		handler := httpserver.NewHandler(
			controller.New(controller.OpRegister, n.gateway, n.provider, m, n.log),
			controller.New(controller.OpResolve, n.gateway, nil, m, n.log),
			n.log,
		)

		cfg := flags.ConfigureServer(cCtx, n.log)
		cfg.Gatherer = reg

		server, err := httpserver.New(cfg, handler)
		if err != nil {
			n.log.Error("Failed to create server", "err", err)
			return err
		}
		server.RunInBackground()

		<-cCtx.Context.Done()
		n.log.Info("Shutdown signal received")

		server.Shutdown()
		n.log.Info("Server shutdown complete")
		return nil
	},
}

func main() {
	app := &cli.App{
		Name:     "arcns",
		Usage:    "Register and resolve .arc names",
		Flags:    flags.CommonFlags,
		Commands: []*cli.Command{registerCommand, resolveCommand, serveCommand},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
