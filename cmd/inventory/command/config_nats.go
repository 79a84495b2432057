package command

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/messaging"
)

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	MaxPayload   int32  `json:"max_payload,omitempty"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing nats start_timeout: %w", err))
		}
	}
	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d is out of range", n.Port))
	}
	if n.MaxPayload < 0 {
		el.Add(fmt.Errorf("nats max_payload cannot be negative"))
	}

	return el.Err()
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" || n.Port != 0 {
		opts = append(opts, messaging.WithListenAddr(net.JoinHostPort(n.Host, strconv.Itoa(n.Port))))
	}
	if n.MaxPayload > 0 {
		opts = append(opts, messaging.WithMaxPayload(n.MaxPayload))
	}

	return messaging.NewNatsServer(opts...)
}
