package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidecam/internal/config"
	"github.com/vovakirdan/slidecam/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	serveSource     sourceFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SlideCam SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own puzzle session with a difficulty picker.
History is stored per-server.

Image sources:
  - The test pattern is used unless --source says otherwise
  - The camera refuses remote sessions unless source.allow_remote_camera
    is set in the config

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.slidecam/host_key

Examples:
  slidecam serve                           # Listen on :23234 with auto-generated key
  slidecam serve --ssh :2222               # Listen on port 2222
  slidecam serve --image ./cat.gif         # Serve a picture
  slidecam serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveSource.register(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		fatal("%v", err)
	}

	if serveSource.provider == "" && serveSource.image == "" {
		serveSource.provider = "pattern"
	}
	serveSource.apply(&cfg.Source)

	render, err := cfg.Render.Options()
	if err != nil {
		fatal("render config: %v", err)
	}
	aw, ah, err := cfg.Render.AspectRatio()
	if err != nil {
		fatal("render config: %v", err)
	}

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = flagSSHAddr
	srvCfg.HostKeyPath = flagHostKey
	srvCfg.DBPath = flagDBPath
	srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	srvCfg.Provider = cfg.Source.Provider
	srvCfg.Request = cfg.Source.Request()
	srvCfg.Levels = cfg.PuzzleLevels()
	srvCfg.Render = render
	srvCfg.AspectW, srvCfg.AspectH = aw, ah
	srvCfg.Fill = cfg.Render.Fill
	srvCfg.TickRate = flagFPS
	srvCfg.Logger = logger.WithPrefix("slidecam-ssh")

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting SlideCam SSH server on %s\n", srvCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(srvCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatal("server: %v", err)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
