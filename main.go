// ABOUTME: Entry point for the Simple Protocol Player
// ABOUTME: Parses flags and config, wires session, discovery and TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UG40A/SimpleProtocolPlayer/internal/config"
	"github.com/UG40A/SimpleProtocolPlayer/internal/discovery"
	"github.com/UG40A/SimpleProtocolPlayer/internal/pipeline"
	"github.com/UG40A/SimpleProtocolPlayer/internal/session"
	"github.com/UG40A/SimpleProtocolPlayer/internal/ui"
	"github.com/UG40A/SimpleProtocolPlayer/internal/version"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	configFile = flag.String("config", "", "Config file path (optional)")
	serverAddr = flag.String("server", "", "Server address (skip mDNS discovery)")
	serverPort = flag.Int("port", 0, "Server port")
	sampleRate = flag.Int("rate", 0, "Sample rate in Hz")
	stereo     = flag.Bool("stereo", true, "Stereo stream (mono if false)")
	bufferMs   = flag.Int("buffer-ms", 0, "Requested audio buffer in milliseconds")
	retry      = flag.Bool("retry", false, "Reconnect on network errors")
	perfMode   = flag.Bool("performance-mode", false, "Request the low latency audio path")
	minBuffer  = flag.Bool("min-buffer", false, "Size packets from the device minimum buffer")
	transport  = flag.String("transport", "", "Stream transport: tcp or ws")
	logFile    = flag.String("log-file", "", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyFlags(&cfg)

	useTUI := !cfg.NoTUI

	// TUI mode logs only to file; otherwise to both stdout and file.
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("starting %s", version.String())

	// Find a server if none was given.
	if cfg.Server == "" {
		log.Printf("no server configured, browsing mDNS")
		disc := discovery.NewManager()
		disc.Browse()

		select {
		case server := <-disc.Servers():
			cfg.Server = server.Host
			cfg.Port = server.Port
			log.Printf("using discovered server %s:%d", cfg.Server, cfg.Port)
		case <-time.After(10 * time.Second):
			disc.Stop()
			log.Fatalf("no server found after 10 seconds")
		}
		disc.Stop()
	}

	var tuiProg *tea.Program
	controls := ui.NewControls()

	if useTUI {
		tuiProg, err = ui.Run(controls)
		if err != nil {
			log.Fatalf("failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	notify := func(msg string) {
		log.Printf("notice: %s", msg)
		if tuiProg != nil {
			tuiProg.Send(ui.NoticeMsg(msg))
			tuiProg.Send(ui.StatusMsg{Server: serverLabel(cfg), State: "stopped"})
		}
	}

	svc := session.New(notify)
	defer svc.Shutdown()

	p, err := svc.Play(session.Options{
		Config: pipeline.Config{
			ServerAddr:         cfg.Server,
			ServerPort:         cfg.Port,
			SampleRate:         cfg.SampleRate,
			Stereo:             cfg.Stereo,
			BufferMs:           cfg.BufferMs,
			Retry:              cfg.Retry,
			UsePerformanceMode: cfg.PerformanceMode,
			UseMinBuffer:       cfg.UseMinBuffer,
		},
		UseWebSocket: cfg.Transport == "ws",
	})
	if err != nil {
		log.Fatalf("unable to start stream: %v", err)
	}

	if tuiProg != nil {
		tuiProg.Send(ui.StatusMsg{
			Server:      serverLabel(cfg),
			SampleRate:  p.SampleRate(),
			Channels:    p.Channels(),
			PacketBytes: p.PacketBytes(),
			State:       "playing",
		})
	}
	log.Printf("streaming from %s: %dHz, %d channels, %d byte packets",
		serverLabel(cfg), p.SampleRate(), p.Channels(), p.PacketBytes())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Printf("signal received, stopping")
	case <-controls.Quit:
		log.Printf("quit requested, stopping")
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}
}

// applyFlags overrides config file values with flags the user actually set.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = *serverAddr
		case "port":
			cfg.Port = *serverPort
		case "rate":
			cfg.SampleRate = *sampleRate
		case "stereo":
			cfg.Stereo = *stereo
		case "buffer-ms":
			cfg.BufferMs = *bufferMs
		case "retry":
			cfg.Retry = *retry
		case "performance-mode":
			cfg.PerformanceMode = *perfMode
		case "min-buffer":
			cfg.UseMinBuffer = *minBuffer
		case "transport":
			cfg.Transport = *transport
		case "log-file":
			cfg.LogFile = *logFile
		case "no-tui":
			cfg.NoTUI = *noTUI
		}
	})
}

func serverLabel(cfg config.Config) string {
	return fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
}
