package flags

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/arc-name-service/common"
	"github.com/ruteri/arc-name-service/config"
	"github.com/ruteri/arc-name-service/httpserver"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/ruteri/arc-name-service/wallet"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *httpserver.HTTPServerConfig {
	listenAddr := cCtx.String(ListenAddrFlag.Name)
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		// Synchronous registrations wait for inclusion
		WriteTimeout: 5 * time.Minute,
	}
}

// LoadConfig reads the registry settings from flags and environment.
func LoadConfig(cCtx *cli.Context) (*config.Config, error) {
	return config.Load(
		cCtx.String(ContractFlag.Name),
		cCtx.String(RpcAddrFlag.Name),
		cCtx.Int64(ChainIDFlag.Name),
		cCtx.Duration(ConfirmTimeoutFlag.Name),
	)
}

// WalletFromFlags picks the wallet the flags describe. Precedence is raw
// private key (flag, then file), then keystore file, then Clef. It returns a
// nil provider when no wallet is configured.
func WalletFromFlags(cCtx *cli.Context, chainID *big.Int, backend interfaces.Backend) (interfaces.CapabilityProvider, error) {
	accountAddr := interfaces.ZeroAddress
	if raw := cCtx.String(AccountFlag.Name); raw != "" {
		addr, err := interfaces.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", AccountFlag.Name, err)
		}
		accountAddr = addr
	}

	switch {
	case cCtx.String(PrivateKeyFlag.Name) != "":
		key, err := wallet.PrivateKeyFromHex(cCtx.String(PrivateKeyFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return wallet.NewKeyProvider(key, chainID, backend), nil

	case cCtx.String(PrivateKeyFileFlag.Name) != "":
		key, err := wallet.PrivateKeyFromFile(cCtx.String(PrivateKeyFileFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("could not load private key file: %w", err)
		}
		return wallet.NewKeyProvider(key, chainID, backend), nil

	case cCtx.String(KeystoreFlag.Name) != "":
		password := wallet.TerminalPassword("Keystore password: ")
		if file := cCtx.String(PasswordFileFlag.Name); file != "" {
			password = wallet.PasswordFromFile(file)
		}
		return wallet.NewKeystoreProvider(cCtx.String(KeystoreFlag.Name), password, chainID, backend), nil

	case cCtx.String(ClefURLFlag.Name) != "":
		return wallet.NewClefProvider(cCtx.String(ClefURLFlag.Name), accountAddr, backend), nil

	default:
		if cCtx.String(PasswordFileFlag.Name) != "" {
			return nil, errors.New("--password-file requires --keystore")
		}
		return nil, nil
	}
}

var ContractFlag = &cli.StringFlag{
	Name:    "contract",
	EnvVars: []string{"ARC_CONTRACT_ADDRESS"},
	Usage:   "name registry contract address",
}

var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	EnvVars: []string{"ARC_RPC"},
	Value:   "http://127.0.0.1:8545",
	Usage:   "address to connect to RPC",
}

var ChainIDFlag = &cli.Int64Flag{
	Name:    "chain-id",
	EnvVars: []string{"ARC_CHAIN_ID"},
	Usage:   "chain id to sign transactions for, queried from the node when unset",
}

var ConfirmTimeoutFlag = &cli.DurationFlag{
	Name:  "confirm-timeout",
	Value: 0,
	Usage: "how long to wait for a registration to be mined, 0 waits forever",
}

var PrivateKeyFlag = &cli.StringFlag{
	Name:    "private-key",
	EnvVars: []string{"ARC_PRIVATE_KEY"},
	Usage:   "hex private key to sign registrations with",
}

var PrivateKeyFileFlag = &cli.StringFlag{
	Name:    "private-key-file",
	EnvVars: []string{"ARC_PRIVATE_KEY_FILE"},
	Usage:   "file holding the hex private key to sign registrations with",
}

var KeystoreFlag = &cli.StringFlag{
	Name:  "keystore",
	Usage: "encrypted keystore file to sign registrations with",
}

var PasswordFileFlag = &cli.StringFlag{
	Name:  "password-file",
	Usage: "file holding the keystore password, prompted for when unset",
}

var ClefURLFlag = &cli.StringFlag{
	Name:  "clef-url",
	Usage: "Clef endpoint to sign registrations with",
}

var AccountFlag = &cli.StringFlag{
	Name:  "account",
	Usage: "account to use from Clef, defaults to the first one",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var ServerURLFlag = &cli.StringFlag{
	Name:    "server-url",
	EnvVars: []string{"ARC_SERVER_URL"},
	Usage:   "send the request to a running arcns server instead of the node",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}
var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlagFn(common.PackageName),
	ContractFlag,
	RpcAddrFlag,
	ChainIDFlag,
	ConfirmTimeoutFlag,
}

var WalletFlags = []cli.Flag{
	PrivateKeyFlag,
	PrivateKeyFileFlag,
	KeystoreFlag,
	PasswordFileFlag,
	ClefURLFlag,
	AccountFlag,
}

var ServerFlags = []cli.Flag{
	ListenAddrFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
