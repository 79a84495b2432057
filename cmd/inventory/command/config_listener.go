package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/listener"
	"github.com/pixil98/go-service"
)

type ListenerType int

const (
	ListenerTypeTelnet ListenerType = iota
	ListenerTypeSSH
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSSH
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
	// MaxConnections caps simultaneous clients. Zero leaves it uncapped.
	MaxConnections int `json:"max_connections,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.Protocol == ListenerTypeTelnet && cl.HostKeyPath != "" {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}
	if cl.MaxConnections < 0 {
		el.Add(fmt.Errorf("max_connections cannot be negative"))
	}

	return el.Err()
}

func (cl *ListenerConfig) buildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	opts := []listener.ListenerOpt{listener.WithMaxConnections(cl.MaxConnections)}

	switch cl.Protocol {
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm, opts...), nil
	case ListenerTypeSSH:
		hostKey, err := listener.LoadOrGenerateHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.Port, cm, hostKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}
