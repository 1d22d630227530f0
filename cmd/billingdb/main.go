package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordrt/billingdb"
	"github.com/tordrt/billingdb/internal/config"
	"github.com/tordrt/billingdb/internal/logger"
	"github.com/tordrt/billingdb/internal/schema"
)

type cliOptions struct {
	dbURL      string
	mysqlURL   string
	sqlitePath string
	configPath string
	logLevel   string
	schemaName string

	cfg *config.Config
	log *zap.Logger
}

type describeOptions struct {
	declared   bool
	format     string
	outputFile string
	outputDir  string
	tables     string
	exclude    string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "billingdb",
		Short: "Create and inspect the subscription-billing schema",
		Long: `billingdb creates the users, payments and login_logs tables on PostgreSQL, MySQL or SQLite,
checks existing tables against their declaration, and prints the schema as text or markdown.

` + config.Usage(),
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&opts.mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config: info)")
	rootCmd.PersistentFlags().StringVarP(&opts.schemaName, "schema", "s", "", "PostgreSQL schema or MySQL database (default: public / database in URL)")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newVerifyCmd(opts),
		newDescribeCmd(opts),
		newDDLCmd(),
	)
	return rootCmd
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create every missing billing table (safe to re-run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := opts.setup()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := billingdb.EnsureSchema(ctx, url, opts.libraryOptions()); err != nil {
				return fmt.Errorf("failed to ensure schema: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newVerifyCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the live tables against the declared schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := opts.setup()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := billingdb.VerifySchema(ctx, url, opts.libraryOptions()); err != nil {
				return fmt.Errorf("schema verification failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "schema matches declaration")
			return nil
		},
	}
}

func newDescribeCmd(opts *cliOptions) *cobra.Command {
	d := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the live (or declared) schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d.outputDir != "" && d.outputFile != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			var s *schema.Schema
			if d.declared {
				s = billingdb.DeclaredSchema().Filter(parseTableList(d.tables))
				s.Exclude(parseTableList(d.exclude))
			} else {
				url, err := opts.setup()
				if err != nil {
					return err
				}
				ctx, cancel := opts.context(cmd)
				defer cancel()

				libOpts := opts.libraryOptions()
				libOpts.Tables = parseTableList(d.tables)
				libOpts.ExcludeTables = parseTableList(d.exclude)
				if s, err = billingdb.DescribeSchema(ctx, url, libOpts); err != nil {
					return err
				}
			}

			return writeSchema(cmd.OutOrStdout(), s, d)
		},
	}

	cmd.Flags().BoolVar(&d.declared, "declared", false, "Print the declared schema without connecting")
	cmd.Flags().StringVarP(&d.format, "format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringVarP(&d.outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&d.outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	cmd.Flags().StringVarP(&d.tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&d.exclude, "exclude", "", "Tables to leave out (comma-separated, optional)")
	return cmd
}

func newDDLCmd() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE TABLE statements for a dialect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmts, err := billingdb.DDL(schema.Dialect(dialect))
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", string(schema.Postgres), "SQL dialect: postgres, mysql or sqlite")
	return cmd
}

func writeSchema(stdout io.Writer, s *schema.Schema, d *describeOptions) error {
	out := &billingdb.OutputOptions{Writer: stdout, OutputDir: d.outputDir, Format: d.format}

	if d.outputFile != "" {
		f, err := os.Create(d.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		out.Writer = f
	}

	if err := billingdb.FormatSchema(s, out); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// setup loads configuration, builds the logger and resolves the database URL
func (o *cliOptions) setup() (string, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return "", err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.schemaName != "" {
		cfg.SchemaName = o.schemaName
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return "", err
	}
	o.cfg = cfg
	o.log = log

	return o.databaseURL()
}

// databaseURL picks the URL from the connection flags, falling back to configuration
func (o *cliOptions) databaseURL() (string, error) {
	var urls []string
	if o.dbURL != "" {
		urls = append(urls, o.dbURL)
	}
	if o.mysqlURL != "" {
		url := o.mysqlURL
		if !strings.HasPrefix(url, "mysql://") {
			url = "mysql://" + url
		}
		urls = append(urls, url)
	}
	if o.sqlitePath != "" {
		urls = append(urls, "sqlite://"+o.sqlitePath)
	}

	switch {
	case len(urls) > 1:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	case len(urls) == 1:
		return urls[0], nil
	case o.cfg != nil && o.cfg.DatabaseURL != "":
		return o.cfg.DatabaseURL, nil
	default:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified (or set BILLINGDB_DATABASE_URL)")
	}
}

func (o *cliOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.cfg == nil || o.cfg.ConnectTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.ConnectTimeout)
}

func (o *cliOptions) libraryOptions() *billingdb.Options {
	opts := &billingdb.Options{Logger: o.log}
	if o.cfg != nil {
		opts.SchemaName = o.cfg.SchemaName
	}
	return opts
}

func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}

	var tableList []string
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tableList = append(tableList, t)
		}
	}
	return tableList
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
