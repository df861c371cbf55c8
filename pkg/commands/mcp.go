package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/runner/mcp"
	"tableflip.dev/liftlog/pkg/store"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		httpHost  string
		httpPort  int
		httpPath  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes lifts, movements, and weight
suggestions through the Model Context Protocol.`,
		Example: `
liftlog mcp
liftlog mcp --transport http --http-port 8080
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}

			path := strings.TrimSpace(httpPath)
			if path == "" {
				path = "/mcp"
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			runner := mcp.Runner{
				Service:          &app.Service{Persistence: p},
				Name:             "liftlog",
				Version:          "dev",
				HTTPEndpointPath: path,
			}

			switch strings.ToLower(strings.TrimSpace(transport)) {
			case "", string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			case string(mcp.TransportHTTP):
				host := strings.TrimSpace(httpHost)
				if host == "" {
					host = "127.0.0.1"
				}
				if httpPort < 0 || httpPort > 65535 {
					return fmt.Errorf("invalid http-port %d", httpPort)
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(httpPort))
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s%s\n", a, path)
				}
			default:
				return fmt.Errorf("unknown transport %q", transport)
			}

			return runner.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "MCP transport: stdio or http.")
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "Host for the HTTP transport.")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "Port for the HTTP transport.")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "Endpoint path for the HTTP transport.")

	topLevel.AddCommand(cmd)
}
