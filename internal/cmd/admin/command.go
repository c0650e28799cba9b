package admin

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/louisbranch/libraryadmin/internal/services/admin/auth"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Route dump formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type runFunc func(ctx context.Context, cfg Config) error

// NewCommand returns the library-admin root command.
func NewCommand() *cobra.Command {
	return newCommand(ProcessEnviron, Run)
}

func newCommand(environ func() map[string]string, run runFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "library-admin",
		Short:         "Library administration dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(environ, run),
		newRoutesCommand(),
		newHashPasswordCommand(),
		newVerifyTokenCommand(environ),
	)
	return root
}

func newServeCommand(environ func() map[string]string, run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the admin dashboard over HTTP",
		// ParseConfig owns flag parsing.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := commandConfig(cmd, args, environ)
			if !ok || err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
}

// commandConfig resolves the layered configuration for a subcommand that
// accepts the serve flags. ok is false when help was requested.
func commandConfig(cmd *cobra.Command, args []string, environ func() map[string]string) (cfg Config, ok bool, err error) {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(cmd.ErrOrStderr())
	cfg, err = ParseConfig(fs, args, environ())
	if errors.Is(err, pflag.ErrHelp) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// routeRecord is the printable form of a compiled route.
type routeRecord struct {
	Path      string   `json:"path" yaml:"path"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Component string   `json:"component" yaml:"component"`
	Layouts   []string `json:"layouts,omitempty" yaml:"layouts,omitempty"`
	Auth      bool     `json:"requires_auth" yaml:"requires_auth"`
	Redirect  string   `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

func newRoutesCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return WriteRoutes(cmd.OutOrStdout(), routes.Default(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", FormatText, "output format: text, json, or yaml")
	return cmd
}

// WriteRoutes prints table in format.
func WriteRoutes(w io.Writer, table *routes.Table, format string) error {
	matches := table.Routes()
	records := make([]routeRecord, 0, len(matches))
	for _, m := range matches {
		rec := routeRecord{
			Path:      m.Path,
			Name:      m.Name,
			Component: string(m.Component),
			Auth:      m.RequiresAuth,
			Redirect:  m.Redirect,
		}
		for _, l := range m.Layouts {
			rec.Layouts = append(rec.Layouts, string(l))
		}
		records = append(records, rec)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tNAME\tCOMPONENT\tAUTH\tREDIRECT")
		for _, r := range records {
			access := "public"
			if r.Auth {
				access = "required"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Path, dash(r.Name), r.Component, access, dash(r.Redirect))
		}
		return tw.Flush()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readLine(cmd.InOrStdin(), "password")
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newVerifyTokenCommand(environ func() map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-token [flags]",
		Short: "Read a session token from stdin and check it against the operator settings",
		// ParseConfig owns flag parsing.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := commandConfig(cmd, args, environ)
			if !ok || err != nil {
				return err
			}
			issuer, err := newIssuer(cfg)
			if err != nil {
				return err
			}
			token, err := readLine(cmd.InOrStdin(), "token")
			if err != nil {
				return err
			}
			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subject: %s\n", claims.Subject)
			if claims.ExpiresAt != nil {
				fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}

// readLine returns the first line of r, without its terminator.
func readLine(r io.Reader, what string) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return line, nil
}
