// ABOUTME: mDNS discovery of simple-protocol streaming servers
// ABOUTME: Browses for _simple-protocol._tcp services on the local network
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_simple-protocol._tcp"

// ServerInfo describes a discovered server.
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// Manager browses the local network for streaming servers and delivers them
// on a channel.
type Manager struct {
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// NewManager creates a discovery manager.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Browse starts searching for servers in the background.
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}

				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("discovered server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: serviceType,
			Domain:  "local",
			Timeout: 3 * time.Second,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers.
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop ends browsing.
func (m *Manager) Stop() {
	m.cancel()
}
