package handlers

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"rapbuilder/config"
	"rapbuilder/services"
)

// Deps carries what the RAP handlers share beyond the PocketBase app.
type Deps struct {
	Config *config.Config
	Logger *logrus.Logger
	Parser services.EstimateParser
	Guard  *services.ParseGuard
	Policy services.DedupPolicy
	Now    func() time.Time
}

// NewDeps wires the parse client and guard from cfg.
func NewDeps(cfg *config.Config, logger *logrus.Logger) (*Deps, error) {
	policy, err := services.ParseDedupPolicy(cfg.DedupPolicy)
	if err != nil {
		return nil, fmt.Errorf("handlers: %w", err)
	}
	return &Deps{
		Config: cfg,
		Logger: logger,
		Parser: services.NewParseClient(cfg.ParserURL, cfg.ParseTimeout),
		Guard:  services.NewParseGuard(),
		Policy: policy,
		Now:    time.Now,
	}, nil
}

func (d *Deps) log(handler string) *logrus.Entry {
	return d.Logger.WithField("handler", handler)
}
