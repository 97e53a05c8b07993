package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-portal/internal/listener"
	"github.com/pixil98/go-service"
)

type ListenerType int

const (
	ListenerTypeStdio ListenerType = iota
	ListenerTypeTelnet
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stdio":
		*lt = ListenerTypeStdio
	case "telnet":
		*lt = ListenerTypeTelnet
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

type ListenerConfig struct {
	Protocol ListenerType `json:"protocol"`
	Port     uint16       `json:"port"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Protocol == ListenerTypeTelnet && cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.SessionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeStdio:
		return listener.NewStdioListener(cm), nil
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}
