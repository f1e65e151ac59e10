// Package cli wires the command surface. The commands are a demonstration
// harness around the engine, not a stable contract.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"glue-localizer/internal/cache"
	"glue-localizer/internal/config"
	"glue-localizer/internal/dataset"
	"glue-localizer/internal/fsys"
	"glue-localizer/internal/interpolation"
	"glue-localizer/internal/locale"
	"glue-localizer/internal/parser"
	"glue-localizer/internal/store"
	"glue-localizer/internal/textutil"
	"glue-localizer/internal/translation"
	"glue-localizer/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "glue-localizer",
		Short: "Extract, audit and regenerate WoW-addon glue-string localization",
		Long:  "Scans addon source for L[\"key\"] references, models per-locale translations, fills machine-translation files, and regenerates locale files without disturbing hand-maintained structure.",
	}

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(coverageCmd())
	rootCmd.AddCommand(orphansCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(saveCmd())
	rootCmd.AddCommand(restoreBackupCmd())
	rootCmd.AddCommand(cleanBackupsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <source-dir>",
		Short: "Scan addon source for glue-string references and report findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args[0])
		},
	}
}

func coverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <locale-dir>",
		Short: "Report translation coverage and duplicates per locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(args[0])
		},
	}
}

func orphansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans <source-dir> <locale-dir>",
		Short: "List locale entries no longer referenced by source code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remove, _ := cmd.Flags().GetBool("remove")
			return runOrphans(args[0], args[1], remove)
		},
	}
	cmd.Flags().Bool("remove", false, "Remove orphaned entries and save the affected locale files")
	return cmd
}

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <locale-dir>",
		Short: "Fill machine-translation files from the base locale via Google Translate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, _ := cmd.Flags().GetString("bucket")
			return runTranslate(args[0], bucket)
		},
	}
	cmd.Flags().String("bucket", "", "Translate a single bucket (e.g. de, pt, zhCN); default is all")
	return cmd
}

func saveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <locale-dir>",
		Short: "Regenerate locale files, collapsing duplicates and normalizing escapes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetString("locale")
			noBackup, _ := cmd.Flags().GetBool("no-backup")
			return runSave(args[0], code, noBackup)
		},
	}
	cmd.Flags().String("locale", "", "Save a single locale instead of all loaded ones")
	cmd.Flags().Bool("no-backup", false, "Skip the timestamped backup before overwriting")
	return cmd
}

func restoreBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore-backup <locale-dir> <locale>",
		Short: "Restore a locale file from its most recent backup",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestoreBackup(args[0], args[1])
		},
	}
}

func cleanBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean-backups <locale-dir>",
		Short: "Delete all backup files in a locale directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanBackups(args[0])
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func newStore(cfg *config.Config, dir string) *store.Store {
	return store.New(fsys.NewOS(), dir, cfg.Table)
}

func runScan(sourceDir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	st := newStore(cfg, sourceDir)

	result, err := st.ScanSource(ctx, sourceDir, cfg.WorkerCount)
	if err != nil {
		return err
	}

	concatenated := result.Concatenated()
	templateUsed := result.TemplateUsed()

	fmt.Printf("Keys referenced: %d\n", result.Len())
	fmt.Printf("Dynamically built (concatenated) keys: %d\n", len(concatenated))
	fmt.Printf("Keys used in format calls: %d\n\n", len(templateUsed))

	for _, g := range concatenated {
		fmt.Printf("  CONCAT %-40s occurrences=%d\n", g.Key, g.Occurrences)
		for _, loc := range g.ConcatLocations {
			if loc.Line > 0 {
				fmt.Printf("    %s:%d\n", loc.File, loc.Line)
			}
		}
	}
	for _, g := range templateUsed {
		fmt.Printf("  FORMAT %-40s parameters=%d\n", g.Key, g.ParameterCount())
		for _, p := range g.Parameters {
			if p.Kind == parser.KindPercent {
				continue
			}
			fmt.Printf("    #%d: %s (%s)\n", p.Position, p.Raw, p.Kind)
		}
	}
	return nil
}

func runCoverage(localeDir string) error {
	cfg := config.Load()
	st := newStore(cfg, localeDir)

	ds, err := st.LoadDataSet()
	if err != nil {
		return err
	}

	fmt.Printf("Keys across locales: %d\n\n", len(ds.AllKeys()))
	for _, l := range locale.All() {
		dups := ds.Duplicates(l.Code)
		marker := ""
		if len(dups) > 0 {
			marker = fmt.Sprintf("  (%d duplicated keys)", len(dups))
		}
		fmt.Printf("  %-6s %-24s %6.1f%%%s\n", l.Code, l.Name, ds.Coverage(l.Code), marker)
		for _, d := range dups {
			fmt.Printf("         dup %q assigned %d times, final value %q\n",
				d.Key, d.Count, textutil.Truncate(d.FinalValue(), 40))
		}
	}
	return nil
}

func runOrphans(sourceDir, localeDir string, remove bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	srcStore := newStore(cfg, sourceDir)
	locStore := newStore(cfg, localeDir)

	result, err := srcStore.ScanSource(ctx, sourceDir, cfg.WorkerCount)
	if err != nil {
		return err
	}
	validKeys := result.Keys()

	ds, err := locStore.LoadDataSet()
	if err != nil {
		return err
	}

	changed := false
	for _, code := range ds.Locales() {
		orphans := ds.OrphanedKeys(code, validKeys)
		if len(orphans) == 0 {
			continue
		}
		fmt.Printf("%s: %d orphaned entries\n", code, len(orphans))
		for _, key := range orphans {
			fmt.Printf("  %s\n", key)
		}
		if remove {
			removed := ds.RemoveOrphanedKeys(code, validKeys)
			log.Info().Str("locale", code).Int("removed", removed).Msg("Removed orphaned keys")
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return locStore.SaveAll(ctx, ds, cfg.WorkerCount, store.SaveOptions{Backup: cfg.Backup}, func(p store.Progress) {
		if p.Err != nil {
			log.Error().Err(p.Err).Str("locale", p.Locale).Msg("Save failed")
		}
	})
}

func runTranslate(localeDir, bucket string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	st := newStore(cfg, localeDir)

	ds, err := st.LoadDataSet()
	if err != nil {
		return err
	}

	buckets := locale.GTCodes()
	if bucket != "" {
		if len(locale.VariantsOf(bucket)) == 0 {
			return fmt.Errorf("gt bucket %q: %w", bucket, store.ErrInvalidLocale)
		}
		buckets = []string{bucket}
	}

	translationCache, closePool, err := initCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePool()

	baseEntry, _ := locale.ByCode("enUS")
	provider := translation.NewGoogleClient(baseEntry.Provider, cfg.TranslateDelay)
	if !provider.Ready() {
		return fmt.Errorf("translation provider is not configured")
	}

	source := ds.Translations("enUS")
	if len(source) == 0 {
		log.Warn().Msg("No base-locale (enUS) translations loaded; nothing to translate")
		return nil
	}

	for _, gt := range buckets {
		if gt == "en" {
			continue
		}
		if err := fillBucket(ctx, ds, provider, translationCache, source, gt, cfg.BatchSize); err != nil {
			return err
		}
		if err := st.SaveGTLocale(ds, gt, store.SaveOptions{Backup: cfg.Backup}); err != nil {
			log.Error().Err(err).Str("bucket", gt).Msg("GT save failed")
		}
	}
	return nil
}

// fillBucket translates every base-locale value missing from one
// machine-translation bucket. Format specifiers are protected around the
// provider call so the service cannot mangle them.
func fillBucket(ctx context.Context, ds *dataset.Set, provider translation.Provider, translationCache *cache.TranslationCache, source map[string]string, gt string, batchSize int) error {
	providerLang, ok := locale.ProviderCode(gt)
	if !ok {
		return fmt.Errorf("gt bucket %q: %w", gt, store.ErrInvalidLocale)
	}

	var pending []string
	for key, text := range source {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if existing, ok := ds.GTTranslation(key, gt); ok && strings.TrimSpace(existing) != "" {
			continue
		}
		if cached, ok := translationCache.Get(ctx, text, providerLang); ok {
			ds.SetGTTranslation(gt, key, cached)
			continue
		}
		pending = append(pending, key)
	}

	if len(pending) == 0 {
		log.Info().Str("bucket", gt).Msg("Nothing to translate")
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s-GT[reset]", gt)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, batch := range worker.Batch(pending, batchSize) {
		protected := make([]string, len(batch))
		mappings := make([][]interpolation.Mapping, len(batch))
		for i, key := range batch {
			protected[i], mappings[i] = interpolation.Protect(source[key])
		}

		results, err := provider.TranslateBatch(ctx, protected, providerLang, func(p translation.Progress) {
			bar.Add(1)
			if p.Err != nil {
				log.Warn().Err(p.Err).Str("bucket", gt).Msg("Translation failed for one string")
			}
		})
		if err != nil {
			return err
		}

		for i, key := range batch {
			if results[i] == "" {
				continue
			}
			translated := interpolation.Restore(results[i], mappings[i])
			ds.SetGTTranslation(gt, key, translated)
			if err := translationCache.Set(ctx, source[key], providerLang, translated); err != nil {
				log.Warn().Err(err).Str("key", textutil.Truncate(key, 30)).Msg("Failed to cache translation")
			}
		}
	}

	fmt.Println()
	return nil
}

func initCache(ctx context.Context, cfg *config.Config) (*cache.TranslationCache, func(), error) {
	if cfg.DatabaseURL == "" {
		return cache.New(nil), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect cache database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping cache database: %w", err)
	}
	log.Info().Msg("Connected to translation cache database")

	c := cache.New(pool)
	if err := c.Init(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := c.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload cache")
	}
	return c, pool.Close, nil
}

func runSave(localeDir, code string, noBackup bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	st := newStore(cfg, localeDir)

	ds, err := st.LoadDataSet()
	if err != nil {
		return err
	}

	opts := store.SaveOptions{Backup: cfg.Backup && !noBackup}
	if code != "" {
		if err := st.SaveLocale(ds, code, opts); err != nil {
			return err
		}
		log.Info().Str("locale", code).Msg("Saved")
		return nil
	}

	return st.SaveAll(ctx, ds, cfg.WorkerCount, opts, func(p store.Progress) {
		if p.Err != nil {
			log.Error().Err(p.Err).Str("locale", p.Locale).Msg("Save failed")
			return
		}
		log.Info().Str("locale", p.Locale).Int("processed", p.Processed).Int("total", p.Total).Msg("Saved")
	})
}

func runRestoreBackup(localeDir, code string) error {
	cfg := config.Load()
	st := newStore(cfg, localeDir)

	if !locale.IsSupported(code) {
		return fmt.Errorf("locale %q: %w", code, store.ErrInvalidLocale)
	}
	used, err := st.RestoreBackup(st.LocaleFile(code))
	if err != nil {
		return err
	}
	log.Info().Str("locale", code).Str("backup", used).Msg("Restored from backup")
	return nil
}

func runCleanBackups(localeDir string) error {
	cfg := config.Load()
	st := newStore(cfg, localeDir)

	removed, err := st.DeleteBackups()
	if err != nil {
		return err
	}
	log.Info().Int("removed", removed).Msg("Deleted backups")
	return nil
}
