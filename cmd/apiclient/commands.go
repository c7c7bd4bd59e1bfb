package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samvad-hq/samvad-api-client/internal/app"
	"github.com/samvad-hq/samvad-api-client/internal/config"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
	"github.com/spf13/cobra"
)

// errHTTPStatus is returned with --fail when the server answers with a 4xx/5xx status.
var errHTTPStatus = errors.New("request failed")

type requestFlags struct {
	headers []string
	query   []string
	data    string
	fail    bool
}

// cli holds the runtime built before any subcommand runs.
type cli struct {
	rt *app.Runtime
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "apiclient",
		Short:         "Issue requests through the shared API client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := startRuntime(cmd.Context())
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		root.AddCommand(c.requestCommand(method, false))
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		root.AddCommand(c.requestCommand(method, true))
	}
	root.AddCommand(c.journalCommand())
	return root
}

func (c *cli) close() {
	if c.rt != nil {
		_ = c.rt.Close()
	}
	_ = logger.Close()
}

func startRuntime(ctx context.Context) (*app.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr so stdout carries only response bodies.
	log, err := logger.InitWriter(cfg, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt, err := app.NewRuntime(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize runtime", "error", err)
		return nil, err
	}
	return rt, nil
}

func (c *cli) requestCommand(method string, withBody bool) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <path>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return executeRequest(httpclient.NewContext(ctx, c.rt.Client()), cmd.OutOrStdout(), method, args[0], flags)
		},
	}
	cmd.Flags().StringArrayVarP(&flags.headers, "header", "H", nil, "request header as key:value (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.fail, "fail", false, "exit non-zero on 4xx/5xx responses")
	if withBody {
		cmd.Flags().StringVarP(&flags.data, "data", "d", "", "JSON request body")
	}
	return cmd
}

// executeRequest issues one request with the client carried by ctx and writes the result to out.
func executeRequest(ctx context.Context, out io.Writer, method, path string, flags requestFlags) error {
	client, ok := httpclient.FromContext(ctx)
	if !ok {
		return fmt.Errorf("no http client in context")
	}

	opts, err := flags.requestOptions()
	if err != nil {
		return err
	}

	var body any
	if strings.TrimSpace(flags.data) != "" {
		if !json.Valid([]byte(flags.data)) {
			return fmt.Errorf("--data is not valid JSON")
		}
		body = json.RawMessage(flags.data)
	}

	resp, err := client.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d %s\n", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	if len(resp.Body()) > 0 {
		fmt.Fprintln(out, string(resp.Body()))
	}
	if flags.fail && resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s %s returned %d", errHTTPStatus, method, resp.URL(), resp.StatusCode())
	}
	return nil
}

func (f requestFlags) requestOptions() ([]httpclient.RequestOption, error) {
	var opts []httpclient.RequestOption
	for _, h := range f.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q (expected key:value)", h)
		}
		opts = append(opts, httpclient.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	for _, q := range f.query {
		key, value, ok := strings.Cut(q, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", q)
		}
		opts = append(opts, httpclient.WithQueryParam(key, value))
	}
	return opts, nil
}

func (c *cli) journalCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recently recorded exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.rt.Journal().Recent(limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to print (0 for all)")
	return cmd
}
