package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/util"
)

// runtime holds what every extracting command needs.
type runtime struct {
	settings settings
	logger   *slog.Logger
	engine   *extract.Engine

	parsers *parser.ParserManager
	files   util.FileCache
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	level, err := util.ParseLogLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := util.ParseLogFormat(s.LogFormat)
	if err != nil {
		return nil, err
	}
	logCfg := util.DefaultLoggerConfig()
	logCfg.Level = level
	logCfg.Format = format
	logCfg.Output = cmd.ErrOrStderr()
	logger := util.NewLogger(logCfg)

	pm := parser.NewParserManager(logger, util.PoolSize(s.Workers))
	cacheCfg := util.DefaultFileCacheConfig()
	cacheCfg.Logger = logger
	files := util.NewFileCache(cacheCfg)

	l, err := loader.New(loader.Config{Parser: pm, Files: files, Logger: logger})
	if err != nil {
		pm.Close()
		files.Close()
		return nil, err
	}
	engine, err := extract.NewEngine(extract.Config{Loader: l, Logger: logger})
	if err != nil {
		pm.Close()
		files.Close()
		return nil, err
	}
	return &runtime{settings: s, logger: logger, engine: engine, parsers: pm, files: files}, nil
}

// extractOptions returns the per-file options; Filename is set by the caller.
func (r *runtime) extractOptions() (extract.Options, error) {
	res, err := r.settings.resolution()
	if err != nil {
		return extract.Options{}, err
	}
	return extract.Options{Dialect: r.settings.Dialect, Resolution: res}, nil
}

func (r *runtime) Close() {
	r.parsers.Close()
	if err := r.files.Close(); err != nil {
		r.logger.Warn("failed to release file cache", "error", err)
	}
}
