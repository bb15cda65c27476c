package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/ebfe/scard"
	"github.com/gregLibert/emv-kernel/internal/config"
	"github.com/gregLibert/emv-kernel/pkg/capk"
	"github.com/gregLibert/emv-kernel/pkg/kernel"
	"github.com/gregLibert/emv-kernel/pkg/terminal"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	verbose := flag.Bool("v", false, "enable debug logging")
	logFormat := flag.String("log-format", "", "log format: text or json (overrides the config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Configure slog
	level, _ := cfg.LogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	format := cfg.Log.Format
	if *logFormat != "" {
		format = *logFormat
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}

	keys, err := capk.Load(cfg.Keys.CAKeysFile, capk.WithExpiry(time.Now))
	if err != nil {
		log.Fatalf("CA keys: %v", err)
	}
	slog.Info("CA keys loaded", "count", keys.Len(), "file", cfg.Keys.CAKeysFile)

	params := terminal.Default()
	if cfg.Keys.TerminalFile != "" {
		if params, err = terminal.LoadFile(cfg.Keys.TerminalFile); err != nil {
			log.Fatalf("terminal configuration: %v", err)
		}
	}

	iface, _ := cfg.Interface()
	policy, _ := cfg.Policy()
	txType, _ := cfg.TransactionType()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scardCtx, card, err := connectToCard(cfg.Reader)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			slog.Warn("failed to disconnect card", "err", err)
		}
		if err := scardCtx.Release(); err != nil {
			slog.Warn("failed to release context", "err", err)
		}
	}()

	k, err := kernel.New(card, keys,
		kernel.WithLogger(slog.Default()),
		kernel.WithInterface(iface),
		kernel.WithTerminal(params),
		kernel.WithPolicy(policy),
		kernel.WithAmount(cfg.Transaction.Amount),
		kernel.WithOtherAmount(cfg.Transaction.OtherAmount),
		kernel.WithTransactionType(txType),
	)
	if err != nil {
		log.Fatalf("kernel: %v", err)
	}

	snapshot, err := k.Run(ctx)
	if err != nil {
		var kerr *kernel.Error
		if errors.As(err, &kerr) {
			printSnapshot(kerr.Snapshot)
		}
		if errors.Is(err, kernel.ErrTryOtherInterface) {
			slog.Error("present the card on another interface", "interface", iface.String())
		}
		log.Fatalf("transaction failed: %v", err)
	}

	printSnapshot(snapshot)
	fmt.Printf("\nTVR:\n%s\n", k.Store().TVR().Describe())
	fmt.Printf("TSI:\n%s\n", k.Store().TSI().Describe())
}

// connectToCard establishes the PC/SC context and connects the configured
// reader.
func connectToCard(rc config.ReaderConfig) (*scard.Context, *scard.Card, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, nil, fmt.Errorf("establishing context: %w", err)
	}

	reader, err := pickReader(ctx, rc)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			slog.Warn("failed to release context", "err", relErr)
		}
		return nil, nil, err
	}
	slog.Info("using reader", "reader", reader)

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			slog.Warn("failed to release context", "err", relErr)
		}
		return nil, nil, fmt.Errorf("connecting to card: %w", err)
	}
	return ctx, card, nil
}

func pickReader(ctx *scard.Context, rc config.ReaderConfig) (string, error) {
	readers, err := ctx.ListReaders()
	if err != nil {
		return "", fmt.Errorf("listing readers: %w", err)
	}
	if len(readers) == 0 {
		return "", errors.New("no smart card reader found")
	}

	if rc.Name != "" {
		for _, r := range readers {
			if strings.Contains(r, rc.Name) {
				return r, nil
			}
		}
		return "", fmt.Errorf("no reader matches %q among %q", rc.Name, readers)
	}

	index := 0
	if rc.Index != nil {
		index = *rc.Index
	}
	if index >= len(readers) {
		return "", fmt.Errorf("reader index %d out of range, %d reader(s) found", index, len(readers))
	}
	return readers[index], nil
}

func printSnapshot(snapshot map[string][]byte) {
	tags := make([]string, 0, len(snapshot))
	for tag := range snapshot {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	fmt.Println("=== TRANSACTION RECORD ===")
	for _, tag := range tags {
		fmt.Printf("    %-6s %X\n", tag, snapshot[tag])
	}
}
