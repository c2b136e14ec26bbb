// Package app wires the engine and its adapters for the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/doeshing/shai-sense/internal/application/doctor"
	"github.com/doeshing/shai-sense/internal/application/session"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/infrastructure/ai"
	"github.com/doeshing/shai-sense/internal/infrastructure/cache"
	"github.com/doeshing/shai-sense/internal/infrastructure/config"
	contextcollector "github.com/doeshing/shai-sense/internal/infrastructure/context"
	"github.com/doeshing/shai-sense/internal/infrastructure/executor"
	"github.com/doeshing/shai-sense/internal/infrastructure/history"
	"github.com/doeshing/shai-sense/internal/infrastructure/security"
	"github.com/doeshing/shai-sense/internal/infrastructure/shell"
	"github.com/doeshing/shai-sense/internal/infrastructure/snapshot"
	"github.com/doeshing/shai-sense/internal/intel/dictionary"
	"github.com/doeshing/shai-sense/internal/pkg/filesystem"
	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Options controls container construction.
type Options struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        *logger.ZapLogger
	HistoryStore  ports.HistoryRepository
	Collector     ports.StateCollector
	Executor      ports.CommandExecutor
	Guard         ports.CommandGuard
	Redactor      ports.Redactor
	ChatFactory   ports.ChatClientFactory
	ReplyCache    *cache.FileCache
	Snapshots     *snapshot.FileStore
	Shell         ports.ShellIntegrator
	Dictionary    *dictionary.Dictionary
	DoctorService *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dict, err := dictionary.LoadFile(filesystem.ExpandPath(cfg.Intelligence.DictionaryFile))
	if err != nil {
		log.Warn("dictionary extension ignored", map[string]interface{}{"error": err.Error()})
		dict = dictionary.Default()
	}

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		HistoryStore: openJournal(cfg.History.Path, log),
		Collector:    contextcollector.NewStateCollector(),
		Executor:     executor.NewLocalExecutor(cfg.GetExecutionShell(), opts.Stdout, opts.Stderr),
		ChatFactory:  ai.NewFactory(time.Duration(cfg.GetTimeoutSeconds()) * time.Second),
		Dictionary:   dict,
		Snapshots:    snapshot.NewFileStore(filepath.Join(filesystem.ShaiDir(), "state")),
		Shell:        shell.NewInstaller(log),
	}
	if cfg.IsCacheEnabled() {
		c.ReplyCache = cache.NewFileCache(cfg.Cache.Dir, cfg.GetCacheMaxEntries(), cfg.GetCacheTTL())
	}

	if cfg.IsGuardrailEnabled() {
		guard, err := security.NewGuardrail(cfg.Guardrail.RulesFile)
		if err != nil {
			log.Warn("custom guardrail rules ignored", map[string]interface{}{"error": err.Error()})
			if guard, err = security.NewGuardrail(""); err != nil {
				return nil, err
			}
		}
		c.Guard = guard
	}

	if cfg.IsRedactionEnabled() {
		redactor, err := security.NewRedactor(cfg.Redaction.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("redaction rules: %w", err)
		}
		c.Redactor = redactor
	}

	c.DoctorService = &doctor.Service{
		Config:    cfg,
		History:   c.HistoryStore,
		Guard:     c.Guard,
		Collector: c.Collector,
		Shell:     c.Shell,
	}
	return c, nil
}

// openJournal prefers SQLite and falls back to a JSONL file next to it.
func openJournal(path string, log ports.Logger) ports.HistoryRepository {
	store, err := history.NewSQLiteStore(path)
	if err == nil {
		return store
	}
	fallback := path + ".jsonl"
	log.Warn("sqlite journal unavailable, using jsonl", map[string]interface{}{
		"error": err.Error(),
		"path":  fallback,
	})
	return history.NewFileStore(fallback)
}

// NewSession builds an engine session seeded from the journal. AI fallback
// is attached only when enabled and the default model resolves.
func (c *Container) NewSession() (*session.Session, error) {
	return c.newSession(c.Config.IsAIEnabled())
}

// NewOfflineSession is NewSession without the AI fallback, for callers that
// cannot wait for a provider reply.
func (c *Container) NewOfflineSession() (*session.Session, error) {
	return c.newSession(false)
}

func (c *Container) newSession(withAI bool) (*session.Session, error) {
	var chat ports.ChatClient
	if withAI {
		chat = c.chatClient()
	}

	sess, err := session.New(session.Options{
		Config:     c.Config,
		Dictionary: c.Dictionary,
		Chat:       chat,
		Redactor:   c.Redactor,
		Logger:     c.Logger,
		Keep:       c.Allowed,
	})
	if err != nil {
		return nil, err
	}

	records, err := c.HistoryStore.Records(c.Config.GetMaxHistoryEntries(), "")
	if err != nil {
		c.Logger.Warn("history restore skipped", map[string]interface{}{"error": err.Error()})
		return sess, nil
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	sess.Restore(records)
	return sess, nil
}

func (c *Container) chatClient() ports.ChatClient {
	model, err := c.Config.GetDefaultModel()
	if err != nil {
		c.Logger.Warn("ai fallback disabled", map[string]interface{}{"error": err.Error()})
		return nil
	}
	client, err := c.ChatFactory.ForModel(model)
	if err != nil {
		c.Logger.Warn("ai fallback disabled", map[string]interface{}{"model": model.Name, "error": err.Error()})
		return nil
	}
	if c.ReplyCache != nil {
		return cache.NewCachingChat(client, c.ReplyCache, model.Name, c.Logger)
	}
	return client
}

// Vet drops runnable suggestions that the guardrail blocks.
func (c *Container) Vet(in []domain.Suggestion) []domain.Suggestion {
	if c.Guard == nil {
		return in
	}
	out := make([]domain.Suggestion, 0, len(in))
	for _, s := range in {
		if c.Allowed(s) {
			out = append(out, s)
		}
	}
	return out
}

// Allowed reports whether s passes the guardrail. Non-runnable kinds always do.
func (c *Container) Allowed(s domain.Suggestion) bool {
	if c.Guard == nil {
		return true
	}
	switch s.Kind {
	case domain.SuggestionRunCommand, domain.SuggestionCorrection, domain.SuggestionWorkflowSteps:
		if verdict := c.Guard.Evaluate(s.Payload()); verdict.Blocked {
			c.Logger.Debug("suggestion blocked", map[string]interface{}{"command": s.Payload()})
			return false
		}
	}
	return true
}

// Close releases the journal and flushes logs.
func (c *Container) Close() error {
	var err error
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		err = closer.Close()
	}
	_ = c.Logger.Sync()
	return err
}
