// Package cli implements the coinex command line tool: a thin shell around the signed client that
// issues one request and prints the returned data.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/coinex/config"
	"github.com/lukehollenback/coinex/constants"
	"github.com/lukehollenback/coinex/exchange"
	"github.com/lukehollenback/coinex/exchange/coinex"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	debug      bool
	noColor    bool
}

// reportedError marks an error that has already been printed to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the command line tool against the process arguments.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with the provided arguments. Failures are printed to stderr before
// being returned.
func Run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	cmd, opts := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		report(stderr, aurora.NewAurora(!opts.noColor), err)
	}

	return err
}

func newRootCommand(stdout io.Writer, stderr io.Writer) (*cobra.Command, *options) {
	opts := &options{}

	root := &cobra.Command{
		Use:           constants.Name,
		Short:         "Issue signed requests against the CoinEx REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "load configuration from `file`")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log every request and response")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		requestCommand(http.MethodGet, opts, stdout, stderr),
		requestCommand(http.MethodPost, opts, stdout, stderr),
	)

	return root, opts
}

func requestCommand(method string, opts *options, stdout io.Writer, stderr io.Writer) *cobra.Command {
	name := strings.ToLower(method)

	return &cobra.Command{
		Use:   name + " <path> [key=value ...]",
		Short: fmt.Sprintf("Send a signed %s request and print the returned data", method),
		Example: fmt.Sprintf(
			"  %s %s /order/pending market=BTCUSDT page=1 limit=10",
			constants.Name, name,
		),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			au := aurora.NewAurora(!opts.noColor)

			if err := runRequest(cmd.Context(), method, opts, args, stdout, stderr); err != nil {
				report(stderr, au, err)
				return &reportedError{err: err}
			}

			return nil
		},
	}
}

func runRequest(ctx context.Context, method string, opts *options, args []string, stdout io.Writer, stderr io.Writer) error {
	logger := newLogger(stderr, opts)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if opts.debug {
		cfg.Debug = true
	}

	client, err := cfg.NewClient(coinex.WithLogger(logger))
	if err != nil {
		return err
	}

	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}

	logger.Debug().Str("method", method).Str("path", args[0]).Int("fields", len(fields)).Msg("sending request")

	var data json.RawMessage

	if method == http.MethodGet {
		data, err = client.Get(ctx, args[0], fields)
	} else {
		data, err = client.Post(ctx, args[0], fields)
	}

	if err != nil {
		return err
	}

	return printData(stdout, data)
}

//
// parseFields turns "key=value" arguments into request fields. Repeating a key produces a list.
//
func parseFields(args []string) (exchange.Fields, error) {
	fields := exchange.Fields{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}

		switch existing := fields[key].(type) {
		case nil:
			fields[key] = value
		case string:
			fields[key] = []string{existing, value}
		case []string:
			fields[key] = append(existing, value)
		}
	}

	return fields, nil
}

func printData(w io.Writer, data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	var out bytes.Buffer

	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("format response data: %w", err)
	}

	out.WriteByte('\n')

	_, err := out.WriteTo(w)

	return err
}

func report(w io.Writer, au aurora.Aurora, err error) {
	fmt.Fprintf(w, "%s %s\n", au.Bold(au.Red("error:")), err)

	var apiErr *coinex.Error
	if !errors.As(err, &apiErr) {
		return
	}

	fmt.Fprintf(w, "%s %s\n", au.Yellow("kind:"), apiErr.Kind)

	switch apiErr.Kind {
	case coinex.KindDomain:
		if envelope, err := json.Marshal(apiErr.Envelope); err == nil {
			fmt.Fprintf(w, "%s %s\n", au.Yellow("envelope:"), envelope)
		}
	case coinex.KindBodylessHTTP:
		fmt.Fprintf(w, "%s %s\n", au.Yellow("status:"), apiErr.HTTP.Status())
	}
}

func newLogger(w io.Writer, opts *options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}

	prefix := fmt.Sprintf(constants.LogPrefixFmt, "≪"+constants.Name+"≫")

	writer := zerolog.ConsoleWriter{
		Out:     w,
		NoColor: opts.noColor,
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return prefix
			}

			return prefix + fmt.Sprint(i)
		},
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
