package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"edgectl/internal/config"
	"edgectl/internal/gateway"
	"edgectl/internal/guard"
	"edgectl/internal/i18n"
	"edgectl/internal/logging"
	"edgectl/internal/notifications"
	"edgectl/internal/request"
	"edgectl/internal/session"
)

type commandContext struct {
	configFlag *string
	langFlag   *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	runtimeOnce sync.Once
	runtime     *runtime
	runtimeErr  error
}

// runtime is the wired client stack shared by the commands of one invocation.
type runtime struct {
	cfg      *config.Config
	lang     i18n.Lang
	logger   *slog.Logger
	store    *session.FileStore
	notifier notifications.Service
	router   *guard.Router
	client   *gateway.Client
}

func newCommandContext(configFlag, langFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		langFlag:   langFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureRuntime(cmd *cobra.Command) (*runtime, error) {
	c.runtimeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runtimeErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.runtimeErr = fmt.Errorf("init logger: %w", err)
			return
		}

		lang := c.language(cfg)
		store := session.NewFileStore(cfg.SessionFile(), logger)
		notifier := notifications.NewService(cfg, notifications.NewConsole(cmd.ErrOrStderr()))
		g := guard.New(store, guard.WithLoginPath(cfg.Session.LoginPath), guard.WithLogger(logger))
		router := guard.NewRouter(g, lang)
		pipeline := request.New(store,
			request.WithBaseURL(cfg.Gateway.BaseURL),
			request.WithDoer(newHTTPClient(cfg)),
			request.WithNavigator(router),
			request.WithNotifier(notifier),
			request.WithLanguage(lang),
			request.WithLoginPath(cfg.Session.LoginPath),
			request.WithTimeout(cfg.RequestTimeout()),
			request.WithUserAgent(config.UserAgent()),
			request.WithLogger(logger),
		)

		c.runtime = &runtime{
			cfg:      cfg,
			lang:     lang,
			logger:   logger,
			store:    store,
			notifier: notifier,
			router:   router,
			client:   gateway.New(pipeline, store, notifier, logger),
		}
	})
	return c.runtime, c.runtimeErr
}

func (c *commandContext) language(cfg *config.Config) i18n.Lang {
	if c.langFlag != nil && strings.TrimSpace(*c.langFlag) != "" {
		return i18n.Parse(*c.langFlag)
	}
	if cfg != nil {
		return i18n.Parse(cfg.UI.Language)
	}
	return i18n.Default
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func newHTTPClient(cfg *config.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Gateway.InsecureSkipVerify {
		// Gateways commonly ship self-signed certificates.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &http.Client{Transport: transport}
}
