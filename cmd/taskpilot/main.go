package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sourcegraph/conc"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/bot"
	"github.com/taskpilot/taskpilot/internal/completion"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/ops"
	"github.com/taskpilot/taskpilot/internal/task"
	"github.com/taskpilot/taskpilot/internal/telegram"
	"github.com/taskpilot/taskpilot/pkg/clog"
	"github.com/taskpilot/taskpilot/pkg/panicerr"
)

const version = "0.1.0"

var (
	app = kingpin.New("taskpilot", "AI productivity assistant bot for Telegram")

	startCmd     = app.Command("start", "Start the bot")
	startOpsAddr = startCmd.Flag("ops-addr", "Ops HTTP listen address (overrides TASKPILOT_OPS_ADDR)").String()

	versionCmd = app.Command("version", "Print version")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case versionCmd.FullCommand():
		fmt.Println(version)
	case startCmd.FullCommand():
		if err := run(); err != nil {
			slog.Error("taskpilot stopped", "error", err)
			os.Exit(1)
		}
	}
}

func run() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	opsAddr := env.OpsAddr
	if *startOpsAddr != "" {
		opsAddr = *startOpsAddr
	}

	// Wire the core: store, provider client, analyzer, orchestrator, router.
	store := task.NewMemoryStore()
	client := completion.NewDeepSeekClient(env.DeepSeekEnv.BaseURL, env.DeepSeekEnv.APIKey, env.DeepSeekEnv.Model)
	orchestrator := bot.NewOrchestrator(store, analyzer.New(client), client)
	router := bot.NewRouter(orchestrator)

	tgClient := telegram.NewClient(env.TelegramEnv.Token, env.TelegramEnv.PollTimeout)
	poller := telegram.NewPoller(tgClient, router, env.TelegramEnv.PollTimeout)
	opsServer := ops.NewServer(opsAddr, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("taskpilot starting", "version", version, "model", env.DeepSeekEnv.Model)

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := panicerr.SafeContext(poller.Run)(ctx); err != nil {
			slog.Error("poller stopped", "error", err)
		}
		stop()
	})
	wg.Go(func() {
		if err := opsServer.ListenAndServe(ctx); err != nil {
			slog.Error("ops server stopped", "error", err)
		}
		stop()
	})
	wg.Wait()

	slog.Info("taskpilot stopped gracefully")
	return nil
}
