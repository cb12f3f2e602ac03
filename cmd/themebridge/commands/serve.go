package commands

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/preview"
)

// ServeCmd starts the preview server.
type ServeCmd struct {
	Host string `name:"host" default:"127.0.0.1" help:"Interface to listen on."`
	Port int    `short:"p" name:"port" help:"Port to listen on (overrides preview.port)."`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	addr, err := s.addr(cfg.Preview.Port)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := preview.New(cfg, preview.Options{Addr: addr, Logger: g.logger()})
	go func() {
		select {
		case <-srv.Ready():
			_, _ = fmt.Fprintf(g.stdout(), "Serving preview at http://%s/\n", srv.Addr())
		case <-ctx.Done():
		}
	}()
	return srv.Run(ctx)
}

func (s *ServeCmd) addr(configured int) (string, error) {
	port := configured
	if s.Port != 0 {
		port = s.Port
	}
	if port < 0 || port > 65535 {
		return "", errors.ValidationError("port out of range").
			WithContext("port", port).
			Build()
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port)), nil
}
