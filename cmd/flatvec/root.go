package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rawbytedev/flatvec"
	"github.com/rawbytedev/flatvec/internal/blob"
	"github.com/rawbytedev/flatvec/internal/config"
)

type app struct {
	configPath    string
	layoutPath    string
	logLevel      string
	unsafeStrings bool

	cfg config.Config
	log *zap.Logger
}

func newApp() *app {
	return &app{cfg: config.Default()}
}

// execute runs the command line args. The logger is flushed and uninstalled
// whether or not the command succeeded.
func (a *app) execute(args []string, out io.Writer) error {
	defer a.close()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.Execute()
}

func (a *app) close() {
	if a.log == nil {
		return
	}
	_ = a.log.Sync()
	flatvec.SetLogger(nil)
	a.log = nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flatvec",
		Short: "Inspect vector fields of FlatBuffers buffers",
		Long: `flatvec reads vector fields of a FlatBuffers root table without generated code.

Fields are named by schema id or by a name declared in a layout file.
FILE may be "-" for stdin and may be zstd compressed.

Examples:
  flatvec len monster.bin 5
  flatvec get --layout monster.yaml monster.bin inventory 3
  flatvec dump --layout monster.yaml monster.bin.zst`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&a.layoutPath, "layout", "l", "", "YAML file whose fields replace the config's fields")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.unsafeStrings, "unsafe-strings", false, "alias strings into the buffer instead of copying")

	root.AddCommand(newLenCmd(a), newGetCmd(a), newDumpCmd(a))
	return root
}

// setup merges the config files and flags, then installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.layoutPath != "" {
		lay, err := config.Load(a.layoutPath)
		if err != nil {
			return err
		}
		a.cfg.Fields = lay.Fields
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("unsafe-strings") {
		a.cfg.UnsafeStrings = a.unsafeStrings
	}
	lvl, err := a.cfg.Level()
	if err != nil {
		return err
	}
	a.log, err = newLogger(lvl)
	if err != nil {
		return err
	}
	flatvec.SetLogger(a.log)
	return nil
}

func newLogger(lvl zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

// open loads path and returns its root table. Releasing the table returns
// the buffer to the pool.
func (a *app) open(path string) (*flatvec.BufferTable, error) {
	b, err := blob.Load(path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("buffer loaded",
		zap.String("path", path),
		zap.Int("size", len(b.Bytes())),
		zap.Bool("zstd", b.Compressed()))
	tab, err := flatvec.GetRootTable(b.Bytes(),
		flatvec.WithUnsafeStrings(a.cfg.UnsafeStrings),
		flatvec.WithReleaseHook(func([]byte) { b.Release() }))
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tab, nil
}
