package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Fasscorp/FassimoV3/internal/config"
	"github.com/Fasscorp/FassimoV3/internal/interview"
	"github.com/Fasscorp/FassimoV3/internal/llm"
	"github.com/Fasscorp/FassimoV3/internal/responder"
	"github.com/Fasscorp/FassimoV3/internal/router"
	"github.com/Fasscorp/FassimoV3/internal/session"
	"github.com/Fasscorp/FassimoV3/internal/store"
	"github.com/Fasscorp/FassimoV3/internal/tasks"
)

var (
	agentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// unavailableClient stands in when no provider is configured; every default
// responder stage fails with a clear reason and the router's recovery message.
type unavailableClient struct {
	err error
}

func (c unavailableClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "", c.err
}

func (c unavailableClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", c.err
}

// runChat starts the interactive loop.
func runChat(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}

	engine, err := interview.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to load interview questionnaire: %w", err)
	}

	client, err := llm.New(ctx, llm.FactoryConfig{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.TimeoutDuration(),
	})
	if err != nil {
		logger.Warn("LLM provider unavailable; free-text replies will fail until configured", zap.Error(err))
		client = unavailableClient{err: err}
	}

	var taskStore tasks.Store
	var sessions session.Store
	if cfg.Storage.Persist {
		local, err := store.NewLocalStore(filepath.Join(workspace, cfg.Storage.DatabasePath))
		if err != nil {
			return err
		}
		defer local.Close()
		taskStore = local
		sessions = session.NewMemoryStore(session.WithSink(local))
		logger.Info("persistence enabled", zap.String("db", cfg.Storage.DatabasePath))
	} else {
		taskStore = tasks.NewMemoryStore()
		sessions = session.NewMemoryStore()
	}

	r := router.New(sessions, taskStore, engine, responder.New(client))

	watcher, err := config.NewWatcher(workspace, func(fresh *config.Config) {
		logger.Info("config reloaded", zap.String("provider", fresh.LLM.Provider))
	})
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	fmt.Println(hintStyle.Render("Type a message, a button number, /tasks, /reset or /quit."))

	reply := r.Handle(ctx, sessionID, router.TriggerReset, session.ChannelChat)
	renderReply(reply)

	scanner := bufio.NewScanner(os.Stdin)
	lastActions := reply.Actions
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/tasks":
			input = router.TriggerViewTasks
		case "/reset":
			input = router.TriggerReset
		default:
			// A bare number selects the matching button from the last reply.
			if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(lastActions) {
				input = lastActions[n-1].Trigger
			}
		}

		reply = r.Handle(ctx, sessionID, input, session.ChannelChat)
		lastActions = reply.Actions
		renderReply(reply)
	}
}

func renderReply(reply router.Reply) {
	fmt.Println(agentStyle.Render(reply.Text))
	for i, action := range reply.Actions {
		fmt.Printf("  %d. %s\n", i+1, buttonStyle.Render(action.Label))
	}
}
